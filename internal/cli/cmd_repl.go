package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/diffuzz/internal/decode"
	"github.com/calvinalkan/diffuzz/internal/harness"
)

const replHelp = `Enter an input per line:
  urlparser             the URL text; a leading " reads a Go-quoted string
  qsort                 integers, e.g. 5 3 8 1
  qsort-range           low high, then integers
Commands:
  :hex <bytes>          run raw hex-encoded bytes
  :save <file>          write the last failing input to file
  :help                 show this help
  :quit                 leave`

// prompter reads one line per call.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

type scanPrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func (p *scanPrompter) Prompt(prompt string) (string, error) {
	_, _ = io.WriteString(p.out, prompt)

	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return p.sc.Text(), nil
}

func (*scanPrompter) AppendHistory(string) {}

func (*scanPrompter) Close() error { return nil }

func newPrompter(o *IO) prompter {
	if f, ok := o.in.(*os.File); ok && f == os.Stdin {
		l := liner.NewLiner()
		l.SetCtrlCAborts(true)

		return l
	}

	return &scanPrompter{sc: bufio.NewScanner(o.in), out: o.out}
}

// ReplCmd returns the repl command.
func ReplCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("repl", flag.ContinueOnError),
		Usage: "repl <target>",
		Short: "Try inputs against a target interactively",
		Long:  "Read inputs line by line and print the verdict of each.\n\n" + replHelp,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return ErrTargetRequired
			}

			target, err := a.lookup(args[0])
			if err != nil {
				return err
			}

			p := newPrompter(o)
			defer func() { _ = p.Close() }()

			return execRepl(ctx, o, a, target, p)
		},
	}
}

func execRepl(ctx context.Context, o *IO, a *app, target harness.Target, p prompter) error {
	var lastFailing []byte

	for ctx.Err() == nil {
		line, err := p.Prompt(target.Name() + "> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}

		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		p.AppendHistory(line)

		cmd, arg, _ := strings.Cut(line, " ")

		switch cmd {
		case ":quit", ":q":
			return nil
		case ":help":
			o.Println(replHelp)

			continue
		case ":save":
			if err := saveInput(a, strings.TrimSpace(arg), lastFailing); err != nil {
				o.ErrPrintln("error:", err)
			} else {
				o.Println("saved", strings.TrimSpace(arg))
			}

			continue
		}

		var data []byte

		if cmd == ":hex" {
			data, err = hex.DecodeString(strings.ReplaceAll(arg, " ", ""))
		} else {
			data, err = parseReplInput(target.Name(), line)
		}

		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		out := target.Iterate(data)
		printOutcome(o, "result", out)

		if out.Verdict == harness.Failed {
			lastFailing = data
		}
	}

	return ctx.Err()
}

// parseReplInput turns a line into the bytes the target's decoder expects.
func parseReplInput(target, line string) ([]byte, error) {
	if target == harness.NameURLParser {
		if strings.HasPrefix(line, `"`) {
			s, err := strconv.Unquote(line)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrBadInput, err)
			}

			return []byte(s), nil
		}

		return []byte(line), nil
	}

	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })

	values := make([]int64, 0, len(fields))

	for _, f := range fields {
		v, err := strconv.ParseInt(f, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadInput, err)
		}

		values = append(values, v)
	}

	return decode.EncodeWords(values...), nil
}

func saveInput(a *app, path string, data []byte) error {
	if data == nil {
		return ErrNothingToSave
	}

	if path == "" {
		return fmt.Errorf("%w: :save needs a file name", ErrBadInput)
	}

	if a.workDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(a.workDir, path)
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}
