package bql

// ============================================================================
// @db.* Content Commands
// ============================================================================

// parsePathOnlyCmd parses the family of commands taking just a path:
// newdir, delete, info, makepublic, makeprivate, deletebytes.
func (p *Parser) parsePathOnlyCmd(db, ctx string) {
	path := p.expect(itemPath, ctx).val
	cmd := newCommand(ctx, db, false)
	cmd.Args["path"] = path
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseNewFileCmd parses: @db.newfile /path {json};
func (p *Parser) parseNewFileCmd(db, ctx string) {
	path := p.expect(itemPath, ctx).val
	if p.peek().typ != itemLeftBrace {
		p.errorf("expecting a JSON object in %s", ctx)
	}
	doc := p.parseJSON(ctx)
	cmd := newCommand(ctx, db, false)
	cmd.Args["path"] = path
	cmd.Args["data"] = doc
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseListDirectoryCmd parses: @db.listdir /path [--regex=<pattern>];
func (p *Parser) parseListDirectoryCmd(db, ctx string) {
	path := p.expect(itemPath, ctx).val
	cmd := newCommand(ctx, db, false)
	cmd.Args["path"] = path
	p.parseRegexOption(cmd.Options, ctx)
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseRenameContentCmd parses: @db.rename /path "newname";
func (p *Parser) parseRenameContentCmd(db, ctx string) {
	path := p.expect(itemPath, ctx).val
	name := p.unquote(p.expect(itemString, ctx).val, ctx)
	cmd := newCommand(ctx, db, false)
	cmd.Args["path"] = path
	cmd.Args["name"] = name
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseMoveOrCopyCmd parses: @db.move /from /to; and @db.copy /from /to;
func (p *Parser) parseMoveOrCopyCmd(db, ctx string) {
	from := p.expect(itemPath, ctx).val
	to := p.expect(itemPath, ctx).val
	cmd := newCommand(ctx, db, false)
	cmd.Args["path"] = from
	cmd.Args["to"] = to
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseReadFileCmd parses: @db.readfile /path ["field", ...];
func (p *Parser) parseReadFileCmd(db, ctx string) {
	path := p.expect(itemPath, ctx).val

	fields := []string{}
	if p.peek().typ == itemLeftBracket {
		p.next()
	Loop:
		for {
			switch p.peek().typ {
			case itemString:
				fields = append(fields, p.unquote(p.next().val, ctx))
			case itemComma:
				p.next()
				if p.peek().typ == itemRightBracket {
					p.errorf("trailing comma in %s field list", ctx)
				}
			case itemRightBracket:
				p.next()
				break Loop
			default:
				p.errorf("invalid value %s in %s field list", p.peek(), ctx)
			}
		}
	}

	cmd := newCommand(ctx, db, false)
	cmd.Args["path"] = path
	cmd.Args["fields"] = fields
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseModifyFileCmd parses: @db.modfile /path {json};
func (p *Parser) parseModifyFileCmd(db, ctx string) {
	path := p.expect(itemPath, ctx).val
	if p.peek().typ != itemLeftBrace {
		p.errorf("expecting a JSON object in %s", ctx)
	}
	doc := p.parseJSON(ctx)
	cmd := newCommand(ctx, db, false)
	cmd.Args["path"] = path
	cmd.Args["data"] = doc
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseCounterCmd parses the two counter forms:
//
//	@db.counter list [--regex=<pattern>];
//	@db.counter "name" incr|decr|reset <n>;
func (p *Parser) parseCounterCmd(db, ctx string) {
	token := p.expectOneOf(itemString, itemIdentifier, ctx)
	if token.typ == itemIdentifier {
		if token.val != "list" {
			p.errorf("invalid identifier %q in %s", token.val, ctx)
		}
		cmd := newCommand(ctx, db, false)
		cmd.Args["action"] = "list"
		p.parseRegexOption(cmd.Options, ctx)
		cmd.Filter = p.parseEndOfCommand(ctx)
		p.add(cmd)
		return
	}

	name := p.unquote(token.val, ctx)
	action := p.expect(itemIdentifier, ctx).val
	switch action {
	case "incr", "decr", "reset":
	default:
		p.errorf("invalid counter action %q in %s", action, ctx)
	}
	value := p.parseInteger(ctx)

	cmd := newCommand(ctx, db, false)
	cmd.Args["name"] = name
	cmd.Args["action"] = action
	cmd.Args["value"] = value
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}
