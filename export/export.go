// Package export renders fitted polynomials as plain text, LaTeX, or Go
// source. It reads only the stable accessor surface of fit.Result, never the
// solve internals, so any result — plain or piecewise — can be exported
// after the fact.
package export

import (
	"fmt"
	"strings"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/fit"
)

// coefficients below this magnitude are omitted from rendered formulas.
const renderEps = 1e-12

// Text renders the fitted formula as plain text, one line per piece:
//
//	cl(alpha, mach) = 0.1 + 2.3*alpha - 0.5*alpha^2*mach
func Text(r *fit.Result) string {
	name := r.Name()
	if name == "" {
		name = "f"
	}
	head := fmt.Sprintf("%s(%s)", name, strings.Join(r.Labels(), ", "))

	split, piecewise := r.Split()
	if !piecewise {
		return fmt.Sprintf("%s = %s", head, polyText(r.Basis(), r.Coeffs(), r.Labels()))
	}

	first := r.Labels()[0]
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s = %s  (%s <= %.6g)\n", head, polyText(r.Basis(), r.Coeffs(), r.Labels()), first, split)
	fmt.Fprintf(&sb, "%s = %s  (%s > %.6g)", head, polyText(r.Basis(), r.UpperCoeffs(), r.Labels()), first, split)

	return sb.String()
}

func polyText(b *basis.Basis, coeffs []float64, labels []string) string {
	var sb strings.Builder
	for i, c := range coeffs {
		if absSmall(c) {
			continue
		}

		mono := monoText(b.Term(i), labels)
		switch {
		case sb.Len() == 0 && mono == "":
			fmt.Fprintf(&sb, "%.6g", c)
		case sb.Len() == 0:
			fmt.Fprintf(&sb, "%.6g%s", c, "*"+mono)
		case c < 0 && mono == "":
			fmt.Fprintf(&sb, " - %.6g", -c)
		case c < 0:
			fmt.Fprintf(&sb, " - %.6g*%s", -c, mono)
		case mono == "":
			fmt.Fprintf(&sb, " + %.6g", c)
		default:
			fmt.Fprintf(&sb, " + %.6g*%s", c, mono)
		}
	}
	if sb.Len() == 0 {
		return "0"
	}

	return sb.String()
}

func monoText(t basis.Term, labels []string) string {
	var parts []string
	for j, e := range t {
		switch {
		case e == 1:
			parts = append(parts, labels[j])
		case e > 1:
			parts = append(parts, fmt.Sprintf("%s^%d", labels[j], e))
		}
	}

	return strings.Join(parts, "*")
}

// LaTeX renders the formula as a LaTeX expression. Piecewise results use a
// cases environment keyed on the first variable.
func LaTeX(r *fit.Result) string {
	name := r.Name()
	if name == "" {
		name = "f"
	}
	head := fmt.Sprintf("%s(%s)", name, strings.Join(r.Labels(), ", "))

	split, piecewise := r.Split()
	if !piecewise {
		return fmt.Sprintf("%s = %s", head, polyLaTeX(r.Basis(), r.Coeffs(), r.Labels()))
	}

	first := r.Labels()[0]
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s = \\begin{cases}\n", head)
	fmt.Fprintf(&sb, "  %s & %s \\le %.6g \\\\\n", polyLaTeX(r.Basis(), r.Coeffs(), r.Labels()), first, split)
	fmt.Fprintf(&sb, "  %s & %s > %.6g\n", polyLaTeX(r.Basis(), r.UpperCoeffs(), r.Labels()), first, split)
	sb.WriteString("\\end{cases}")

	return sb.String()
}

func polyLaTeX(b *basis.Basis, coeffs []float64, labels []string) string {
	var sb strings.Builder
	for i, c := range coeffs {
		if absSmall(c) {
			continue
		}

		mono := monoLaTeX(b.Term(i), labels)
		switch {
		case sb.Len() == 0 && mono == "":
			fmt.Fprintf(&sb, "%.6g", c)
		case sb.Len() == 0:
			fmt.Fprintf(&sb, "%.6g \\, %s", c, mono)
		case c < 0 && mono == "":
			fmt.Fprintf(&sb, " - %.6g", -c)
		case c < 0:
			fmt.Fprintf(&sb, " - %.6g \\, %s", -c, mono)
		case mono == "":
			fmt.Fprintf(&sb, " + %.6g", c)
		default:
			fmt.Fprintf(&sb, " + %.6g \\, %s", c, mono)
		}
	}
	if sb.Len() == 0 {
		return "0"
	}

	return sb.String()
}

func monoLaTeX(t basis.Term, labels []string) string {
	var parts []string
	for j, e := range t {
		switch {
		case e == 1:
			parts = append(parts, labels[j])
		case e > 1:
			parts = append(parts, fmt.Sprintf("%s^{%d}", labels[j], e))
		}
	}

	return strings.Join(parts, " ")
}

// GoSource renders the fitted function as a compilable Go function with one
// float64 parameter per variable. Piecewise results branch on the first
// parameter.
func GoSource(r *fit.Result, funcName string) string {
	if funcName == "" {
		funcName = "eval"
	}
	labels := r.Labels()
	params := strings.Join(labels, ", ")

	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s(%s float64) float64 {\n", funcName, params)

	split, piecewise := r.Split()
	if piecewise {
		fmt.Fprintf(&sb, "\tif %s <= %v {\n", labels[0], split)
		fmt.Fprintf(&sb, "\t\treturn %s\n", polyGo(r.Basis(), r.Coeffs(), labels))
		sb.WriteString("\t}\n")
		fmt.Fprintf(&sb, "\treturn %s\n", polyGo(r.Basis(), r.UpperCoeffs(), labels))
	} else {
		fmt.Fprintf(&sb, "\treturn %s\n", polyGo(r.Basis(), r.Coeffs(), labels))
	}
	sb.WriteString("}\n")

	return sb.String()
}

func polyGo(b *basis.Basis, coeffs []float64, labels []string) string {
	var parts []string
	for i, c := range coeffs {
		if absSmall(c) {
			continue
		}

		term := fmt.Sprintf("%v", c)
		for j, e := range b.Term(i) {
			for ; e > 0; e-- {
				term += "*" + labels[j]
			}
		}
		parts = append(parts, term)
	}
	if len(parts) == 0 {
		return "0"
	}

	return strings.Join(parts, " + ")
}

func absSmall(c float64) bool {
	return c < renderEps && c > -renderEps
}
