package bql

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================================
// select / set / unset
// ============================================================================

// parseSelectCmd parses:
//
//	@db.select "field" ... in /dir ...
//	  [where <conditions>] [distinct "field"] [sort asc|desc "field" ...]
//	  [limit <n>] [count];
//
// Result modifiers compose: distinct applies first, then sort, then limit;
// count short-circuits the lot and returns the matching document count.
func (p *Parser) parseSelectCmd(db, ctx string) {
	fields := []string{}
	for p.peek().typ == itemString {
		fields = append(fields, p.unquote(p.next().val, ctx))
	}

	cmd := newCommand(ctx, db, false)
	cmd.Args["fields"] = fields
	cmd.Args["dirs"] = p.parseInClause(ctx)

Loop:
	for {
		switch token := p.next(); {
		case token.typ == itemIdentifier && strings.ToLower(token.val) == "where":
			cmd.Args["where"] = p.parseWhereCmd()
		case token.typ == itemIdentifier && strings.ToLower(token.val) == "sort":
			cmd.Args["sort"] = p.parseSortCmd()
		case token.typ == itemIdentifier && strings.ToLower(token.val) == "limit":
			cmd.Args["limit"] = p.parseLimitCmd()
		case token.typ == itemIdentifier && strings.ToLower(token.val) == "distinct":
			cmd.Args["distinct"] = p.parseDistinctCmd()
		case token.typ == itemIdentifier && strings.ToLower(token.val) == "count":
			cmd.Args["count"] = true
		case token.typ == itemSendTo:
			p.backup()
			cmd.Filter = p.parseEndOfCommand(ctx)
			break Loop
		case token.typ == itemSemiColon:
			break Loop
		case token.typ == itemEOF:
			p.backup()
			break Loop
		default:
			p.errorf("invalid identifier %s in %s", token, ctx)
		}
	}

	p.add(cmd)
}

// parseSetCmd parses:
//
//	@db.set "f" = <value> ... "g" += <n> ... in /dir ... [where <conditions>];
func (p *Parser) parseSetCmd(db, ctx string) {
	fields := map[string]any{}
	incr := map[string]float64{}

Assignments:
	for {
		switch token := p.next(); token.typ {
		case itemString:
			switch p.peek().typ {
			case itemEqual:
				p.backup2(token)
				f, v := p.parseValueAssignment()
				fields[f] = v
			case itemPlusEqual, itemMinusEqual:
				p.backup2(token)
				f, v := p.parseIncrDecrValue()
				incr[f] = v
			default:
				p.errorf("invalid assignment operator in %s", ctx)
			}
		default:
			p.backup()
			break Assignments
		}
	}
	if len(fields) == 0 && len(incr) == 0 {
		p.errorf("no field assignments found in %s", ctx)
	}

	cmd := newCommand(ctx, db, false)
	cmd.Args["fields"] = fields
	if len(incr) > 0 {
		cmd.Args["incr"] = incr
	}
	cmd.Args["dirs"] = p.parseInClause(ctx)
	p.parseTrailingWhere(&cmd, ctx)
	p.add(cmd)
}

// parseUnsetCmd parses:
//
//	@db.unset "field" ... in /dir ... [where <conditions>];
func (p *Parser) parseUnsetCmd(db, ctx string) {
	fields := []string{}
	for p.peek().typ == itemString {
		fields = append(fields, p.unquote(p.next().val, ctx))
	}
	if len(fields) == 0 {
		p.errorf("no fields found in %s", ctx)
	}

	cmd := newCommand(ctx, db, false)
	cmd.Args["fields"] = fields
	cmd.Args["dirs"] = p.parseInClause(ctx)
	p.parseTrailingWhere(&cmd, ctx)
	p.add(cmd)
}

// parseInClause parses the mandatory "in /dir ..." directory list.
func (p *Parser) parseInClause(ctx string) []string {
	in := p.expect(itemIdentifier, ctx)
	if strings.ToLower(in.val) != "in" {
		p.errorf("expecting 'in' clause in %s", ctx)
	}
	dirs := []string{}
	for p.peek().typ == itemPath {
		dirs = append(dirs, p.next().val)
	}
	if len(dirs) == 0 {
		p.errorf("no directories listed in %s", ctx)
	}
	return dirs
}

// parseTrailingWhere parses the optional where clause and the statement
// terminator of set/unset.
func (p *Parser) parseTrailingWhere(cmd *Command, ctx string) {
	for {
		switch token := p.next(); {
		case token.typ == itemIdentifier && strings.ToLower(token.val) == "where":
			cmd.Args["where"] = p.parseWhereCmd()
		case token.typ == itemSendTo:
			p.backup()
			cmd.Filter = p.parseEndOfCommand(ctx)
			return
		case token.typ == itemSemiColon:
			return
		case token.typ == itemEOF:
			p.backup()
			return
		default:
			p.errorf("invalid identifier %s in %s", token, ctx)
		}
	}
}

// ============================================================================
// select Modifiers
// ============================================================================

// parseSortCmd parses: sort asc|desc "field" ...
func (p *Parser) parseSortCmd() []SortKey {
	context := "select sort statement"
	order := p.expect(itemIdentifier, context)
	var desc bool
	switch strings.ToLower(order.val) {
	case "asc":
	case "desc":
		desc = true
	default:
		p.errorf("expected 'asc' or 'desc' in %s", context)
	}
	keys := []SortKey{}
	for p.peek().typ == itemString {
		field := p.unquote(p.next().val, context)
		keys = append(keys, SortKey{Field: field, Descending: desc})
	}
	if len(keys) == 0 {
		p.errorf("no sort fields in %s", context)
	}
	return keys
}

// parseLimitCmd parses: limit <n>
func (p *Parser) parseLimitCmd() int64 {
	context := "select limit statement"
	n := p.parseInteger(context)
	if n < 0 {
		p.errorf("limit requires a non-negative integer in %s", context)
	}
	return n
}

// parseDistinctCmd parses: distinct "field"
func (p *Parser) parseDistinctCmd() string {
	context := "select distinct statement"
	return p.unquote(p.expect(itemString, context).val, context)
}

// ============================================================================
// where Clause
// ============================================================================

// fileMetaToField resolves the metadata pseudo-fields usable in conditions.
func fileMetaToField(word string) (MetaField, bool) {
	switch word {
	case "file_name":
		return MetaName, true
	case "file_mime":
		return MetaMime, true
	case "file_size":
		return MetaSize, true
	case "file_ispublic":
		return MetaIsPublic, true
	}
	return MetaNone, false
}

// parseWhereCmd parses a flat condition list. Conditions chain with an
// implicit "and"; an "or" keyword between two conditions switches both into
// the or bucket, so "a or b c" means (a || b) && c.
func (p *Parser) parseWhereCmd() *Where {
	context := "where statement"
	where := &Where{}
	orMode := false

Loop:
	for {
		var cond Condition
		switch p.peek().typ {
		case itemString:
			cond = p.parseSimpleCondition()
		case itemIdentifier:
			word := strings.ToLower(p.peek().val)
			if _, ok := fileMetaToField(word); ok {
				cond = p.parseSimpleCondition()
				break
			}
			switch word {
			case "typeof":
				cond = p.parseTypeofCondition()
			case "exists":
				cond = p.parseExistsCondition()
			case "regex":
				cond = p.parseRegexCondition()
			default:
				break Loop
			}
		default:
			break Loop
		}

		// Decide which bucket the condition lands in. A trailing "or"
		// keyword pulls this condition and the next into the or bucket.
		next := p.peek()
		if next.typ == itemIdentifier && strings.ToLower(next.val) == "or" {
			p.next()
			orMode = true
			where.Or = append(where.Or, cond)
			continue
		}
		if orMode {
			where.Or = append(where.Or, cond)
		} else {
			where.And = append(where.And, cond)
		}
		orMode = false
	}

	if len(where.And) == 0 && len(where.Or) == 0 {
		p.errorf("empty %s", context)
	}
	return where
}

// parseConditionField parses a condition's field: a quoted document field
// or a metadata pseudo-field identifier.
func (p *Parser) parseConditionField(context string) FieldRef {
	token := p.next()
	if token.typ == itemIdentifier {
		meta, ok := fileMetaToField(token.val)
		if !ok {
			p.errorf("unknown field identifier %q in %s", token.val, context)
		}
		return FieldRef{Meta: meta}
	}
	if token.typ != itemString {
		p.errorf("expected field in %s; got %s", context, token)
	}
	return FieldRef{Path: p.unquote(token.val, context)}
}

// parseSimpleCondition parses: <field> ==|!=|<|<=|>|>= <value>
// and the membership forms: <field> in|nin [<values>].
func (p *Parser) parseSimpleCondition() Condition {
	context := "where condition statement"
	field := p.parseConditionField(context)

	switch op := p.next(); op.typ {
	case itemEqualTo, itemNotEqualTo, itemGreaterThan, itemGreaterThanEquals, itemLesserThan, itemLesserThanEquals:
		value := p.parseConditionValue(context)
		return Condition{Field: field, Op: compareOpFor(op.typ), Value: value}
	case itemIdentifier:
		switch strings.ToLower(op.val) {
		case "in":
			return Condition{Field: field, Op: OpIn, Value: p.parseArray()}
		case "nin":
			return Condition{Field: field, Op: OpNotIn, Value: p.parseArray()}
		}
		p.errorf("invalid operator %q in %s", op.val, context)
	default:
		p.errorf("invalid operator %s in %s", op, context)
	}
	return Condition{}
}

func compareOpFor(t itemType) CompareOp {
	switch t {
	case itemNotEqualTo:
		return OpNotEqual
	case itemGreaterThan:
		return OpGreaterThan
	case itemGreaterThanEquals:
		return OpGreaterThanEquals
	case itemLesserThan:
		return OpLesserThan
	case itemLesserThanEquals:
		return OpLesserThanEquals
	default:
		return OpEqual
	}
}

// parseConditionValue parses a comparison operand.
func (p *Parser) parseConditionValue(context string) any {
	switch p.peek().typ {
	case itemString:
		return p.parseString()
	case itemBool:
		return p.parseBoolean()
	case itemNumber:
		return p.parseNumber()
	case itemNull:
		p.next()
		return nil
	case itemLeftBracket:
		return p.parseArray()
	case itemLeftBrace:
		return p.parseJSON(context)
	}
	p.errorf("invalid field value in %s", context)
	return nil
}

// parseTypeofCondition parses: typeof("field") ==|!= "typename"
func (p *Parser) parseTypeofCondition() Condition {
	context := "where typeof condition statement"
	p.next() // absorb typeof
	p.expect(itemLeftParenthesis, context)
	field := p.unquote(p.expect(itemString, context).val, context)
	p.expect(itemRightParenthesis, context)
	op := p.expectOneOf(itemEqualTo, itemNotEqualTo, context)
	typename := p.unquote(p.expect(itemString, context).val, context)
	return Condition{
		Field:  FieldRef{Path: field},
		Op:     OpTypeof,
		Value:  typename,
		Negate: op.typ == itemNotEqualTo,
	}
}

// parseExistsCondition parses: exists("field") ==|!= true|false
func (p *Parser) parseExistsCondition() Condition {
	context := "where exists condition statement"
	p.next() // absorb exists
	p.expect(itemLeftParenthesis, context)
	field := p.unquote(p.expect(itemString, context).val, context)
	p.expect(itemRightParenthesis, context)
	op := p.expectOneOf(itemEqualTo, itemNotEqualTo, context)
	want := p.expect(itemBool, context).val == "true"
	// "exists(f) != true" is just "exists(f) == false".
	if op.typ == itemNotEqualTo {
		want = !want
	}
	return Condition{Field: FieldRef{Path: field}, Op: OpExists, Value: want}
}

// parseRegexCondition parses: regex(<field>, "flags") == "pattern"
// Flags follow Go's regexp syntax: i, m, s and U.
func (p *Parser) parseRegexCondition() Condition {
	context := "where regex condition statement"
	p.next() // absorb regex
	p.expect(itemLeftParenthesis, context)
	field := p.parseConditionField(context)
	p.expect(itemComma, context)
	flags := p.unquote(p.expect(itemString, context).val, context)
	p.expect(itemRightParenthesis, context)
	p.expect(itemEqualTo, context)
	pattern := p.unquote(p.expect(itemString, context).val, context)

	for _, f := range flags {
		switch f {
		case 'i', 'm', 's', 'U':
		default:
			p.errorf("invalid regex flag %q in %s", string(f), context)
		}
	}
	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		p.errorf("invalid regex pattern in %s: %v", context, err)
	}
	return Condition{Field: field, Op: OpRegex, Pattern: re}
}

// ============================================================================
// Values
// ============================================================================

// parseValueAssignment parses: "field" = <value>
func (p *Parser) parseValueAssignment() (string, any) {
	context := "assignment statement"
	field := p.unquote(p.next().val, context)
	p.expect(itemEqual, context)
	return field, p.parseConditionValue(context)
}

// parseIncrDecrValue parses: "field" +=|-= <n>
// The magnitude of n is applied; the operator carries the sign.
func (p *Parser) parseIncrDecrValue() (string, float64) {
	context := "increment/decrement statement"
	field := p.unquote(p.expect(itemString, context).val, context)
	op := p.expectOneOf(itemPlusEqual, itemMinusEqual, context)
	if p.peek().typ != itemNumber {
		p.errorf("invalid field value in %s", context)
	}
	val := p.parseNumber()
	if val < 0 {
		val = -val
	}
	if op.typ == itemMinusEqual {
		val = -val
	}
	return field, val
}

// parseString parses a quoted string value.
func (p *Parser) parseString() string {
	return p.unquote(p.next().val, "string definition")
}

// parseNumber parses a numeric value as float64, matching JSON decoding.
func (p *Parser) parseNumber() float64 {
	context := "number definition"
	val, err := strconv.ParseFloat(p.next().val, 64)
	if err != nil {
		p.errorf("invalid numerical value in %s", context)
	}
	return val
}

// parseInteger parses an int64 value.
func (p *Parser) parseInteger(context string) int64 {
	token := p.expect(itemNumber, context)
	val, err := strconv.ParseInt(token.val, 10, 64)
	if err != nil {
		p.errorf("invalid integer value in %s", context)
	}
	return val
}

// parseBoolean parses a boolean constant.
func (p *Parser) parseBoolean() bool {
	return p.next().val != "false"
}

// parseArray parses a bracketed value list, recursively.
func (p *Parser) parseArray() []any {
	context := "array definition"
	p.next() // absorb left bracket
	list := []any{}
Loop:
	for {
		switch p.peek().typ {
		case itemString:
			list = append(list, p.parseString())
		case itemBool:
			list = append(list, p.parseBoolean())
		case itemNull:
			p.next()
			list = append(list, nil)
		case itemNumber:
			list = append(list, p.parseNumber())
		case itemLeftBracket:
			list = append(list, p.parseArray())
		case itemLeftBrace:
			list = append(list, p.parseJSON(context))
		case itemComma:
			p.next()
			if p.peek().typ == itemRightBracket {
				p.errorf("trailing comma in %s", context)
			}
		case itemRightBracket:
			p.next()
			break Loop
		default:
			p.errorf("invalid value %s in %s", p.peek(), context)
		}
	}
	return list
}

// parseJSON re-assembles the raw token text of a brace-delimited object and
// validates it with encoding/json. Tokens inside an object are
// self-delimiting, so concatenation reproduces a parsable document.
func (p *Parser) parseJSON(context string) map[string]any {
	depth := 0
	var src strings.Builder
Loop:
	for {
		switch next := p.next(); next.typ {
		case itemError:
			p.errorf("%s", next.val)
		case itemLeftBrace:
			depth++
			src.WriteString(next.val)
		case itemRightBrace:
			depth--
			src.WriteString(next.val)
			if depth == 0 {
				break Loop
			}
		case itemEOF, itemSemiColon:
			p.backup()
			p.errorf("invalid json object in %s", context)
		default:
			src.WriteString(next.val)
		}
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(src.String()), &doc); err != nil {
		p.errorf("invalid json object in %s", context)
	}
	return doc
}
