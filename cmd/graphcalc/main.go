package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/graphcalc"
	"github.com/zephyrtronium/graphcalc/calculator"
)

const (
	historyFile = ".graphcalc_history"
	prompt      = "= "
)

const helpText = `Enter an expression to evaluate it. Keypad glyphs like × ÷ √ ³√ log₁₀ work.
Commands:
  :2d EXPR      plot EXPR in x over [-10, 10]
  :3d EXPR      plot EXPR in x and y over [-10, 10]²
  :d VAR EXPR   differentiate EXPR with respect to VAR
  :keys K...    press keypad keys, separated by spaces, and show the display
  :help         show this text
  :quit         exit
`

func main() {
	log.SetFlags(0)
	var (
		inname, plotkind, diffvar string
		echo, verbose             bool
		width, height             int
		prec                      uint
	)
	flag.StringVar(&inname, "in", "", "input file, one expression per line (default stdin if no args given)")
	flag.StringVar(&plotkind, "plot", "", "plot expressions instead of evaluating them: 2D or 3D")
	flag.StringVar(&diffvar, "diff", "", "differentiate expressions with respect to this variable")
	flag.BoolVar(&echo, "echo", false, "print canonical expression text")
	flag.BoolVar(&verbose, "v", false, "log diagnostics to stderr")
	flag.IntVar(&width, "width", 72, "plot width in columns")
	flag.IntVar(&height, "height", 24, "plot height in rows")
	flag.UintVar(&prec, "prec", 64, "bits of precision for evaluation")
	flag.Parse()
	if width < 8 || height < 4 {
		log.Fatalf("plot size %dx%d is too small", width, height)
	}
	if prec == 0 {
		log.Fatal("precision must be positive")
	}

	diag := zerolog.Nop()
	if verbose {
		diag = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	r := &textRenderer{w: os.Stdout, width: width, height: height}
	calc := calculator.New(calculator.WithLogger(diag), calculator.WithRenderer(r), calculator.WithPrecision(prec))
	do := func(expr string) {
		if echo {
			fmt.Printf("%s : ", graphcalc.Normalize(expr))
		}
		switch {
		case plotkind != "":
			kind, ok := calculator.ParsePlotKind(plotkind)
			if !ok {
				log.Fatalf("unknown plot kind %q", plotkind)
			}
			p, ok := calc.RequestPlot(expr, kind)
			if !ok {
				fmt.Println(calculator.ErrorText)
				return
			}
			r.Render(p)
		case diffvar != "":
			d, ok := calc.Differentiate(expr, diffvar, 1)
			if !ok {
				d = calculator.ErrorText
			}
			fmt.Println(d)
		default:
			fmt.Println(calc.Submit(expr))
		}
	}

	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			do(arg)
		}
		return
	}
	if inname == "" && isatty.IsTerminal(os.Stdin.Fd()) {
		os.Exit(repl(calc, r))
	}
	f, err := infile(inname)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			do(line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

func infile(inname string) (*os.File, error) {
	if inname == "" || inname == "-" {
		return os.Stdin, nil
	}
	return os.Open(inname)
}

func repl(calc *calculator.Calculator, r *textRenderer) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	keypad := calculator.NewSession(calc)
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		cmd, rest := line, ""
		if k := strings.IndexByte(line, ' '); k >= 0 {
			cmd, rest = line[:k], strings.TrimSpace(line[k+1:])
		}
		switch cmd {
		case ":quit", ":q":
			return 0
		case ":help":
			fmt.Print(helpText)
		case ":2d", ":3d":
			kind, _ := calculator.ParsePlotKind(cmd[1:])
			if p, ok := calc.RequestPlot(rest, kind); ok {
				r.Render(p)
			} else {
				fmt.Println(calculator.ErrorText)
			}
		case ":keys":
			for _, key := range strings.Fields(rest) {
				keypad.Press(key)
			}
			fmt.Println(keypad.Text())
		case ":d":
			v, expr := rest, ""
			if k := strings.IndexByte(rest, ' '); k >= 0 {
				v, expr = rest[:k], rest[k+1:]
			}
			d, ok := calc.Differentiate(expr, v, 1)
			if !ok {
				d = calculator.ErrorText
			}
			fmt.Println(d)
		default:
			if strings.HasPrefix(cmd, ":") {
				fmt.Printf("unknown command %s; try :help\n", cmd)
				continue
			}
			fmt.Println(calc.Submit(line))
		}
	}
}
