package sim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// True exits with status 0.
func True(*Process) int { return 0 }

// False exits with status 1.
func False(*Process) int { return 1 }

// Seq prints a sequence of integers from FIRST to LAST in steps of INCR.
func Seq(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "seq [-s SEP] [FIRST [INCR]] LAST",
		Short: "Print numbers from FIRST to LAST, in steps of INCR.",
	}

	sep := cmd.Flags().StringLong("separator", 's', "\n", "use SEP to separate numbers")

	return cmd.RunE(p, func() error {
		args := cmd.Flags().Args()

		nums := make([]int, len(args))
		for i, arg := range args {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return ErrInvalidNumber.Wrapf("%q", arg)
			}

			nums[i] = n
		}

		first, incr := 1, 1

		var last int

		switch len(nums) {
		case 1:
			last = nums[0]
		case 2:
			first, last = nums[0], nums[1]
		case 3:
			first, incr, last = nums[0], nums[1], nums[2]
		default:
			return ErrMissingOperand
		}

		if incr == 0 {
			return ErrInvalidNumber.Wrapf("zero increment")
		}

		var out []string

		for n := first; (incr > 0 && n <= last) || (incr < 0 && n >= last); n += incr {
			if p.Done() {
				return p.Context().Err()
			}

			out = append(out, strconv.Itoa(n))

			// Stop before n += incr can pass last and wrap around.
			if (incr > 0 && n > last-incr) || (incr < 0 && n < last-incr) {
				break
			}
		}

		if len(out) > 0 {
			fmt.Fprintln(p.Stdout(), strings.Join(out, *sep))
		}

		return nil
	})
}

// Expr evaluates its arguments, joined by spaces, as an expr-lang
// expression and prints the result. The expression can refer to the
// working directory as cwd and to piped lines as input.
func Expr(p *Process) int {
	cmd := &SimpleCommand{
		Use:   "expr EXPRESSION...",
		Short: "Evaluate an expression and print its value.",
	}

	return cmd.RunE(p, func() error {
		args := cmd.Flags().Args()

		var input []string
		if p.Piped() && len(args) > 0 {
			// Piped lines cannot be told apart from the expression, so the
			// expression is taken to be the first argument.
			args, input = args[:1], args[1:]
		}

		source := strings.Join(args, " ")
		if strings.TrimSpace(source) == "" {
			return ErrMissingOperand
		}

		env := map[string]any{
			"cwd":   p.Dir(),
			"input": input,
		}

		program, err := expr.Compile(source, expr.Env(env))
		if err != nil {
			return ErrExpr.Wrap(err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return ErrExpr.Wrap(err)
		}

		fmt.Fprintln(p.Stdout(), result)

		return nil
	})
}

func init() {
	addBinCmd("true", True)
	addBinCmd("false", False)
	addBinCmd("seq", Seq)
	addBinCmd("expr", Expr)
}
