package katex

// singleCharBigOps maps unicode operators onto their command names.
var singleCharBigOps = map[string]string{
	"∏": "\\prod",
	"∐": "\\coprod",
	"∑": "\\sum",
	"⋀": "\\bigwedge",
	"⋁": "\\bigvee",
	"⋂": "\\bigcap",
	"⋃": "\\bigcup",
	"⨀": "\\bigodot",
	"⨁": "\\bigoplus",
	"⨂": "\\bigotimes",
	"⨄": "\\biguplus",
	"⨆": "\\bigsqcup",
}

var singleCharIntegrals = map[string]string{
	"∫": "\\int",
	"∬": "\\iint",
	"∭": "\\iiint",
	"∮": "\\oint",
}

func defineOpFunctions(ctx *Context) {
	bigOps := []string{
		"\\coprod", "\\bigvee", "\\bigwedge", "\\biguplus", "\\bigcap", "\\bigcup", "\\intop", "\\prod", "\\sum",
		"\\bigotimes", "\\bigoplus", "\\bigodot", "\\bigsqcup", "\\smallint",
	}

	for char := range singleCharBigOps {
		bigOps = append(bigOps, char)
	}

	ctx.defineFunction(bigOps, FunctionSpec{
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			name := fc.Name
			if cmd, ok := singleCharBigOps[name]; ok {
				name = cmd
			}

			return &Op{Meta: fc.meta(), Name: name, Symbol: true, Limits: true}, nil
		},
	})

	ctx.defineFunction([]string{"\\mathop"}, FunctionSpec{
		NumArgs:   1,
		Primitive: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Op{Meta: fc.meta(), Body: ordArgument(args[0])}, nil
		},
	})

	ctx.defineFunction([]string{
		"\\arcsin", "\\arccos", "\\arctan", "\\arctg", "\\arcctg", "\\arg", "\\ch", "\\cos", "\\cosec", "\\cosh",
		"\\cot", "\\cotg", "\\coth", "\\csc", "\\ctg", "\\cth", "\\deg", "\\dim", "\\exp", "\\hom", "\\ker",
		"\\lg", "\\ln", "\\log", "\\sec", "\\sin", "\\sinh", "\\sh", "\\tan", "\\tanh", "\\tg", "\\th",
	}, FunctionSpec{
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			return &Op{Meta: fc.meta(), Name: fc.Name}, nil
		},
	})

	ctx.defineFunction([]string{"\\det", "\\gcd", "\\inf", "\\lim", "\\max", "\\min", "\\Pr", "\\sup"}, FunctionSpec{
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			return &Op{Meta: fc.meta(), Name: fc.Name, Limits: true}, nil
		},
	})

	integrals := []string{"\\int", "\\iint", "\\iiint", "\\oint"}
	for char := range singleCharIntegrals {
		integrals = append(integrals, char)
	}

	ctx.defineFunction(integrals, FunctionSpec{
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			name := fc.Name
			if cmd, ok := singleCharIntegrals[name]; ok {
				name = cmd
			}

			return &Op{Meta: fc.meta(), Name: name, Symbol: true}, nil
		},
	})

	ctx.defineFunction([]string{"\\operatorname@", "\\operatornamewithlimits"}, FunctionSpec{
		NumArgs: 1,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &OperatorName{
				Meta:               fc.meta(),
				Body:               ordArgument(args[0]),
				AlwaysHandleSupSub: fc.Name == "\\operatornamewithlimits",
			}, nil
		},
	})
}
