package lexer

import "testing"

func TestNextTokenOperatorsAndDelimiters(t *testing.T) {
	input := `auto x, y; extrn z; if (x<=y) { x =+ 1; } else x =- 1;`

	tests := []struct {
		wantType    TokenType
		wantLiteral string
	}{
		{AUTO, "auto"},
		{IDENT, "x"},
		{COMMA, ","},
		{IDENT, "y"},
		{SEMICOLON, ";"},
		{EXTRN, "extrn"},
		{IDENT, "z"},
		{SEMICOLON, ";"},
		{IF, "if"},
		{LPAREN, "("},
		{IDENT, "x"},
		{LE, "<="},
		{IDENT, "y"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{IDENT, "x"},
		{ASSIGN_PLUS, "=+"},
		{INT, "1"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{ELSE, "else"},
		{IDENT, "x"},
		{ASSIGN_MINUS, "=-"},
		{INT, "1"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, tt.wantType)
		}
		if tok.Literal != tt.wantLiteral {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, tt.wantLiteral)
		}
	}
}

// TestEqualsFamilyDisambiguation exercises design's hardest lexical case:
// three-character =-forms must win over two-character forms, which must
// win over plain '='.
func TestEqualsFamilyDisambiguation(t *testing.T) {
	tests := []struct {
		input    string
		wantType TokenType
	}{
		{"=", ASSIGN},
		{"=+", ASSIGN_PLUS},
		{"=-", ASSIGN_MINUS},
		{"=*", ASSIGN_STAR},
		{"=/", ASSIGN_SLASH},
		{"=%", ASSIGN_PERCENT},
		{"=&", ASSIGN_AMP},
		{"=|", ASSIGN_PIPE},
		{"=<<", ASSIGN_SHL},
		{"=>>", ASSIGN_SHR},
		{"=<=", ASSIGN_LE},
		{"=>=", ASSIGN_GE},
		{"===", ASSIGN_EQEQ},
		{"=!=", ASSIGN_NEQ},
		{"=<", ASSIGN_LT},
		{"=>", ASSIGN_GT},
	}

	for _, tt := range tests {
		l := New(tt.input + " x")
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Errorf("input %q: type = %s, want %s", tt.input, tok.Type, tt.wantType)
		}
		if tok.Literal != tt.input {
			t.Errorf("input %q: literal = %q, want %q", tt.input, tok.Literal, tt.input)
		}
		next := l.NextToken()
		if next.Type != IDENT || next.Literal != "x" {
			t.Errorf("input %q: trailing token = %v, want IDENT(x) (over-consumption?)", tt.input, next)
		}
	}
}

func TestEqualsFollowedByLessNotGreedy(t *testing.T) {
	// "=<y" must lex as ASSIGN_LT("=<") then IDENT(y), not swallow the y.
	l := New("=<y")
	tok := l.NextToken()
	if tok.Type != ASSIGN_LT || tok.Literal != "=<" {
		t.Fatalf("got %v, want ASSIGN_LT(=<)", tok)
	}
	ident := l.NextToken()
	if ident.Type != IDENT || ident.Literal != "y" {
		t.Fatalf("got %v, want IDENT(y)", ident)
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hi*n"`, "hi\n"},
		{`"a*tb"`, "a\tb"},
		{`"*e"`, "\x04"},
		{`"*0"`, "\x00"},
		{`"*(*)"`, "()"},
		{`"**"`, "*"},
		{`"*'*""`, `'"`},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != STRING {
			t.Fatalf("input %q: type = %s, want STRING", tt.input, tok.Type)
		}
		if tok.Literal != tt.want {
			t.Errorf("input %q: literal = %q, want %q", tt.input, tok.Literal, tt.want)
		}
	}
}

func TestUnknownEscapeIsError(t *testing.T) {
	l := New(`"*q"`)
	_ = l.NextToken()
	errs := l.Errors()
	if len(errs) != 1 || errs[0].Code != "ex" {
		t.Fatalf("errors = %v, want one error with code ex", errs)
	}
}

func TestPackedCharacterConstant(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"'a'", int64('a')},
		{"'ab'", int64('a') | int64('b')<<8},
		{"'abcd'", int64('a') | int64('b')<<8 | int64('c')<<16 | int64('d')<<24},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != INT {
			t.Fatalf("input %q: type = %s, want INT", tt.input, tok.Type)
		}
		if tok.Value != tt.want {
			t.Errorf("input %q: value = %#x, want %#x", tt.input, tok.Value, tt.want)
		}
	}
}

func TestOctalNumberQuirk(t *testing.T) {
	// Historic B quirk: a leading 0 selects octal digit weighting, but
	// digits 8 and 9 are tolerated rather than rejected.
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"010", 8},
		{"017", 15},
		{"09", 9},  // 0*8 + 9
		{"019", 17}, // 0*8*8 ... digit by digit: (0*8+1)*8+9 = 17
		{"123", 123},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != INT {
			t.Fatalf("input %q: type = %s, want INT", tt.input, tok.Type)
		}
		if tok.Value != tt.want {
			t.Errorf("input %q: value = %d, want %d", tt.input, tok.Value, tt.want)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := "x /* block\ncomment */ = // line comment\n 1;"
	l := New(input)

	want := []TokenType{IDENT, ASSIGN, INT, SEMICOLON, EOF}
	for i, wantType := range want {
		tok := l.NextToken()
		if tok.Type != wantType {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, wantType)
		}
	}
}

func TestUnterminatedBlockCommentFails(t *testing.T) {
	l := New("x /* never closed")
	_ = l.NextToken() // IDENT x
	_ = l.NextToken() // EOF, forced by the unterminated comment
	errs := l.Errors()
	if len(errs) != 1 || errs[0].Code != "*/" {
		t.Fatalf("errors = %v, want one error with code */", errs)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("a b c")
	if tok := l.Peek(1); tok.Literal != "b" {
		t.Fatalf("Peek(1) = %q, want %q", tok.Literal, "b")
	}
	if tok := l.NextToken(); tok.Literal != "a" {
		t.Fatalf("NextToken() = %q, want %q", tok.Literal, "a")
	}
	if tok := l.NextToken(); tok.Literal != "b" {
		t.Fatalf("NextToken() = %q, want %q", tok.Literal, "b")
	}
}

func TestSaveRestoreState(t *testing.T) {
	l := New("a b c")
	_ = l.NextToken() // a
	state := l.SaveState()
	second := l.NextToken() // b
	l.RestoreState(state)
	replay := l.NextToken()
	if replay.Literal != second.Literal {
		t.Fatalf("replay after restore = %q, want %q", replay.Literal, second.Literal)
	}
}

func TestDotDotRange(t *testing.T) {
	l := New("1..10")
	if tok := l.NextToken(); tok.Type != INT || tok.Literal != "1" {
		t.Fatalf("got %v, want INT(1)", tok)
	}
	if tok := l.NextToken(); tok.Type != DOTDOT {
		t.Fatalf("got %v, want DOTDOT", tok)
	}
	if tok := l.NextToken(); tok.Type != INT || tok.Literal != "10" {
		t.Fatalf("got %v, want INT(10)", tok)
	}
}
