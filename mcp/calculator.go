package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/renderloop/genui/catalog"
)

// CalculatorServer evaluates arithmetic expressions and converts units.
type CalculatorServer struct{}

// NewCalculatorServer creates the calculator server.
func NewCalculatorServer() *CalculatorServer {
	return &CalculatorServer{}
}

// Name implements Server.
func (s *CalculatorServer) Name() string { return "calculator" }

// Description implements Server.
func (s *CalculatorServer) Description() string {
	return "Perform mathematical calculations"
}

// Tools implements Server.
func (s *CalculatorServer) Tools() []Tool {
	return []Tool{
		{
			Name:        "calculate",
			Description: "Evaluate a mathematical expression",
			Params: catalog.ObjectSchema(map[string]catalog.PropertyDef{
				"expression": {Type: "string", Description: "The mathematical expression to evaluate"},
			}, "expression"),
		},
		{
			Name:        "convert_units",
			Description: "Convert between units",
			Params: catalog.ObjectSchema(map[string]catalog.PropertyDef{
				"value":     {Type: "number", Description: "The value to convert"},
				"from_unit": {Type: "string", Description: "The source unit"},
				"to_unit":   {Type: "string", Description: "The target unit"},
			}, "value", "from_unit", "to_unit"),
		},
	}
}

// Execute implements Server.
func (s *CalculatorServer) Execute(ctx context.Context, toolName string, args json.RawMessage) (string, error) {
	switch toolName {
	case "calculate":
		var input struct {
			Expression string `json:"expression"`
		}
		if err := json.Unmarshal(args, &input); err != nil {
			return "", fmt.Errorf("calculate: %w", err)
		}
		result, err := evalExpression(input.Expression)
		if err != nil {
			return "", err
		}
		out, _ := json.Marshal(map[string]any{
			"expression": input.Expression,
			"result":     result,
		})
		return string(out), nil

	case "convert_units":
		var input struct {
			Value    float64 `json:"value"`
			FromUnit string  `json:"from_unit"`
			ToUnit   string  `json:"to_unit"`
		}
		if err := json.Unmarshal(args, &input); err != nil {
			return "", fmt.Errorf("convert_units: %w", err)
		}
		result, err := convertUnits(input.Value, input.FromUnit, input.ToUnit)
		if err != nil {
			return "", err
		}
		out, _ := json.Marshal(map[string]any{
			"value":     input.Value,
			"from_unit": input.FromUnit,
			"to_unit":   input.ToUnit,
			"result":    result,
		})
		return string(out), nil
	}

	return "", fmt.Errorf("%w: %s", ErrToolNotFound, toolName)
}

// evalExpression evaluates +, -, *, /, ^ and parentheses over floats using
// the shunting-yard algorithm.
func evalExpression(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("empty expression")
	}

	var output []token
	var ops []token

	precedence := map[string]int{"+": 1, "-": 1, "*": 2, "/": 2, "^": 3}

	for _, tok := range tokens {
		switch {
		case tok.kind == tokenNumber:
			output = append(output, tok)
		case tok.text == "(":
			ops = append(ops, tok)
		case tok.text == ")":
			for len(ops) > 0 && ops[len(ops)-1].text != "(" {
				output = append(output, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return 0, fmt.Errorf("unbalanced parentheses")
			}
			ops = ops[:len(ops)-1]
		default:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.text == "(" {
					break
				}
				// ^ is right-associative.
				if precedence[top.text] > precedence[tok.text] ||
					(precedence[top.text] == precedence[tok.text] && tok.text != "^") {
					output = append(output, top)
					ops = ops[:len(ops)-1]
					continue
				}
				break
			}
			ops = append(ops, tok)
		}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		if top.text == "(" {
			return 0, fmt.Errorf("unbalanced parentheses")
		}
		output = append(output, top)
		ops = ops[:len(ops)-1]
	}

	var stack []float64
	for _, tok := range output {
		if tok.kind == tokenNumber {
			stack = append(stack, tok.value)
			continue
		}
		if len(stack) < 2 {
			return 0, fmt.Errorf("malformed expression")
		}
		b := stack[len(stack)-1]
		a := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		var v float64
		switch tok.text {
		case "+":
			v = a + b
		case "-":
			v = a - b
		case "*":
			v = a * b
		case "/":
			if b == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v = a / b
		case "^":
			v = math.Pow(a, b)
		}
		stack = append(stack, v)
	}
	if len(stack) != 1 {
		return 0, fmt.Errorf("malformed expression")
	}
	return stack[0], nil
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenOp
)

type token struct {
	kind  tokenKind
	text  string
	value float64
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
				j++
			}
			v, err := strconv.ParseFloat(expr[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", expr[i:j])
			}
			tokens = append(tokens, token{kind: tokenNumber, value: v})
			i = j
		case strings.ContainsRune("+-*/^()", rune(c)):
			// Unary minus: fold into the number that follows.
			if c == '-' && (len(tokens) == 0 || tokens[len(tokens)-1].kind == tokenOp && tokens[len(tokens)-1].text != ")") {
				j := i + 1
				for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
					j++
				}
				if j > i+1 {
					v, err := strconv.ParseFloat(expr[i:j], 64)
					if err != nil {
						return nil, fmt.Errorf("invalid number %q", expr[i:j])
					}
					tokens = append(tokens, token{kind: tokenNumber, value: v})
					i = j
					continue
				}
			}
			tokens = append(tokens, token{kind: tokenOp, text: string(c)})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q", string(c))
		}
	}
	return tokens, nil
}

// unitFactors maps length and mass units to a base unit per dimension.
var unitFactors = map[string]struct {
	dimension string
	factor    float64
}{
	"mm": {"length", 0.001},
	"cm": {"length", 0.01},
	"m":  {"length", 1},
	"km": {"length", 1000},
	"in": {"length", 0.0254},
	"ft": {"length", 0.3048},
	"mi": {"length", 1609.344},
	"g":  {"mass", 0.001},
	"kg": {"mass", 1},
	"lb": {"mass", 0.45359237},
	"oz": {"mass", 0.028349523125},
}

func convertUnits(value float64, from, to string) (float64, error) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))

	// Temperatures need offsets, not plain factors.
	if isTempUnit(from) || isTempUnit(to) {
		return convertTemperature(value, from, to)
	}

	f, ok := unitFactors[from]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", from)
	}
	t, ok := unitFactors[to]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	if f.dimension != t.dimension {
		return 0, fmt.Errorf("cannot convert %s to %s", from, to)
	}
	return value * f.factor / t.factor, nil
}

func isTempUnit(u string) bool {
	return u == "c" || u == "f" || u == "celsius" || u == "fahrenheit"
}

func convertTemperature(value float64, from, to string) (float64, error) {
	normalize := func(u string) string {
		if u == "celsius" {
			return "c"
		}
		if u == "fahrenheit" {
			return "f"
		}
		return u
	}
	from, to = normalize(from), normalize(to)

	switch {
	case from == "c" && to == "f":
		return value*9/5 + 32, nil
	case from == "f" && to == "c":
		return (value - 32) * 5 / 9, nil
	case from == to && isTempUnit(from):
		return value, nil
	}
	return 0, fmt.Errorf("cannot convert %s to %s", from, to)
}
