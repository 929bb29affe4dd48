package bql

import "fmt"

// item represents a token returned from the scanner.
type item struct {
	typ  itemType
	val  string
	line int
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemError:
		return i.val
	case len(i.val) > 30:
		return fmt.Sprintf("%.30q...", i.val)
	}
	return fmt.Sprintf("%q", i.val)
}

// itemType identifies the type of the lexemes.
type itemType int

const (
	itemError    itemType = iota // error occurred; value is text of error
	itemDatabase                 // @database selector
	itemBool                     // boolean constant
	itemNull                     // null constant
	itemEOF

	itemEqual             // = for argument value assignment
	itemPlusEqual         // += for value increment
	itemMinusEqual        // -= for value decrement
	itemColon             // :
	itemDot               // .
	itemSemiColon         // ;
	itemComma             // ,
	itemSendTo            // >>
	itemLeftBrace         // {
	itemRightBrace        // }
	itemLeftParenthesis   // (
	itemRightParenthesis  // )
	itemLeftBracket       // [
	itemRightBracket      // ]
	itemEqualTo           // ==
	itemNotEqualTo        // !=
	itemGreaterThan       // >
	itemGreaterThanEquals // >=
	itemLesserThan        // <
	itemLesserThanEquals  // <=
	itemIdentifier        // alphanumeric identifier
	itemNumber            // simple number
	itemString            // quoted string (includes quotes)
	itemPath              // unix type file path
	itemArgument          // -- option marker
)

var itemName = map[itemType]string{
	itemError:             "error",
	itemDatabase:          "database",
	itemBool:              "bool",
	itemNull:              "null",
	itemEOF:               "EOF",
	itemEqual:             "=",
	itemPlusEqual:         "+=",
	itemMinusEqual:        "-=",
	itemColon:             ":",
	itemDot:               ".",
	itemSemiColon:         ";",
	itemComma:             ",",
	itemSendTo:            ">>",
	itemLeftBrace:         "{",
	itemRightBrace:        "}",
	itemLeftParenthesis:   "(",
	itemRightParenthesis:  ")",
	itemLeftBracket:       "[",
	itemRightBracket:      "]",
	itemEqualTo:           "==",
	itemNotEqualTo:        "!=",
	itemGreaterThan:       ">",
	itemGreaterThanEquals: ">=",
	itemLesserThan:        "<",
	itemLesserThanEquals:  "<=",
	itemIdentifier:        "identifier",
	itemNumber:            "number",
	itemString:            "string",
	itemPath:              "path",
	itemArgument:          "--",
}

func (i itemType) String() string {
	s := itemName[i]
	if s == "" {
		return fmt.Sprintf("item%d", int(i))
	}
	return s
}
