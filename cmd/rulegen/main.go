// Command rulegen prints the step shader generated for a rule variant.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gpu-life/internal/rule"
)

var errUnknownLang = errors.New("unknown shader language")

// languages lists the accepted -lang values.
var languages = []string{"kage", "glsl", "glsl-vertex"}

func main() {
	var (
		variant = rule.DefaultVariant
		lang    = "kage"
		out     = ""
	)
	flag.TextVar(&variant, "rule", variant, "rule variant: a, b, d or sqrt")
	flag.StringVar(&lang, "lang", lang, "shader language: "+strings.Join(languages, ", "))
	flag.StringVar(&out, "o", out, "output file (default stdout)")
	flag.Parse()

	w := io.Writer(os.Stdout)
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			slog.Error("rulegen", "err", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if err := generate(w, variant, lang); err != nil {
		slog.Error("rulegen", "err", err)
		os.Exit(1)
	}
}

func generate(w io.Writer, v rule.Variant, lang string) error {
	p := rule.Compile(v)
	var src []byte
	switch lang {
	case "kage":
		src = p.Kage()
	case "glsl":
		src = []byte(p.GLSL())
	case "glsl-vertex":
		src = []byte(rule.VertexGLSL)
	default:
		return fmt.Errorf("%w: %q", errUnknownLang, lang)
	}
	_, err := w.Write(src)
	return err
}
