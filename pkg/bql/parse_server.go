package bql

// ============================================================================
// server.* Commands
// ============================================================================

// parseListDatabasesCmd parses: server.listdb [--regex=<pattern>];
func (p *Parser) parseListDatabasesCmd(ctx string) {
	cmd := newCommand(ctx, "", true)
	p.parseRegexOption(cmd.Options, ctx)
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseNewDatabaseCmd parses: server.newdb "name";
func (p *Parser) parseNewDatabaseCmd(ctx string) {
	db := p.unquote(p.expect(itemString, ctx).val, ctx)
	cmd := newCommand(ctx, "", true)
	cmd.Args["database"] = db
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseDropDatabaseCmd parses: server.dropdb "name";
func (p *Parser) parseDropDatabaseCmd(ctx string) {
	db := p.unquote(p.expect(itemString, ctx).val, ctx)
	cmd := newCommand(ctx, "", true)
	cmd.Args["database"] = db
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseServerInitCmd parses: server.init;
func (p *Parser) parseServerInitCmd(ctx string) {
	cmd := newCommand(ctx, "", true)
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// ============================================================================
// user.* Commands
// ============================================================================

// parseNewUserCmd parses: user.new "username" "password";
func (p *Parser) parseNewUserCmd(ctx string) {
	username := p.unquote(p.expect(itemString, ctx).val, ctx)
	password := p.unquote(p.expect(itemString, ctx).val, ctx)
	cmd := newCommand(ctx, "", true)
	cmd.Args["username"] = username
	cmd.Args["password"] = password
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseListUsersCmd parses: user.all [--regex=<pattern>];
func (p *Parser) parseListUsersCmd(ctx string) {
	cmd := newCommand(ctx, "", true)
	p.parseRegexOption(cmd.Options, ctx)
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseUserInfoCmd parses: user.about "username";
func (p *Parser) parseUserInfoCmd(ctx string) {
	username := p.unquote(p.expect(itemString, ctx).val, ctx)
	cmd := newCommand(ctx, "", true)
	cmd.Args["username"] = username
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseDropUserCmd parses: user.delete "username";
func (p *Parser) parseDropUserCmd(ctx string) {
	username := p.unquote(p.expect(itemString, ctx).val, ctx)
	cmd := newCommand(ctx, "", true)
	cmd.Args["username"] = username
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseNewPasswordCmd parses: user.passw "username" "password";
func (p *Parser) parseNewPasswordCmd(ctx string) {
	username := p.unquote(p.expect(itemString, ctx).val, ctx)
	password := p.unquote(p.expect(itemString, ctx).val, ctx)
	cmd := newCommand(ctx, "", true)
	cmd.Args["username"] = username
	cmd.Args["password"] = password
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseGrantOrDeny parses the trailing grant/deny keyword.
func (p *Parser) parseGrantOrDeny(ctx string) bool {
	token := p.expect(itemIdentifier, ctx)
	switch token.val {
	case "grant":
		return true
	case "deny":
		return false
	}
	p.errorf("invalid identifier %q in %s, expected grant or deny", token.val, ctx)
	return false
}

// parseUserSystemAccessCmd parses: user.access "username" grant|deny;
func (p *Parser) parseUserSystemAccessCmd(ctx string) {
	username := p.unquote(p.expect(itemString, ctx).val, ctx)
	grant := p.parseGrantOrDeny(ctx)
	cmd := newCommand(ctx, "", true)
	cmd.Args["username"] = username
	cmd.Args["grant"] = grant
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseUserDatabaseAccessCmd parses: user.db "username" "database" grant|deny;
func (p *Parser) parseUserDatabaseAccessCmd(ctx string) {
	username := p.unquote(p.expect(itemString, ctx).val, ctx)
	db := p.unquote(p.expect(itemString, ctx).val, ctx)
	grant := p.parseGrantOrDeny(ctx)
	cmd := newCommand(ctx, "", true)
	cmd.Args["username"] = username
	cmd.Args["database"] = db
	cmd.Args["grant"] = grant
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}

// parseWhoamiCmd parses: user.whoami;
func (p *Parser) parseWhoamiCmd(ctx string) {
	cmd := newCommand(ctx, "", false)
	cmd.Filter = p.parseEndOfCommand(ctx)
	p.add(cmd)
}
