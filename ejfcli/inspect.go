package main

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/core/charset"
	"github.com/npillmayer/ejfont/engine/ejf"
	"github.com/npillmayer/ejfont/engine/glyph"
	"github.com/pterm/pterm"
)

// inspectContainer opens a container and either executes the command given
// in args or starts an interactive session.
func inspectContainer(path string, args []string) int {
	c, err := ejf.Open(path)
	if err != nil {
		core.UserError(err)
		return 2
	}
	intp := &Intp{container: c, out: os.Stdout}
	if len(args) > 0 {
		if _, err := intp.Execute(strings.Join(args, " ")); err != nil {
			core.UserError(err)
			return 1
		}
		return 0
	}
	repl, err := readline.New("ejf > ")
	if err != nil {
		tracer().Errorf(err.Error())
		return 3
	}
	defer repl.Close()
	pterm.Info.Printf("Inspecting %s, quit with <ctrl>D\n", path)
	intp.REPL(repl)
	return 0
}

// Intp is our interpreter object for inspecting a container.
type Intp struct {
	container *ejf.Container
	out       io.Writer
}

// REPL starts interactive mode.
func (intp *Intp) REPL(repl *readline.Instance) {
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Execute(line)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

const helpText = `commands:
  header        print the header document
  list          list the characters with their spacing
  show <code>   draw the glyph of a code point, e.g. show 0x41
  verify        check the structure of the container
  quit`

// Execute runs a single command line. It reports whether the session should
// end.
func (intp *Intp) Execute(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "q", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(intp.out, helpText)
	case "header":
		if err := intp.container.Header.Encode(intp.out); err != nil {
			return false, err
		}
		fmt.Fprintln(intp.out)
	case "list":
		return false, intp.list()
	case "show":
		if len(args) != 1 {
			return false, core.Error(core.EINVALID, "usage: show <code>")
		}
		return false, intp.show(args[0])
	case "verify":
		if err := intp.container.Verify(); err != nil {
			return false, err
		}
		fmt.Fprintf(intp.out, "container ok, %d characters\n", len(intp.container.Header.FontCharacterProperties.Characters))
	default:
		return false, core.Error(core.EINVALID, "unknown command %q, try help", cmd)
	}
	return false, nil
}

func (intp *Intp) list() error {
	data := pterm.TableData{{"Entry", "Character", "Left", "Right", "Bytes"}}
	for _, ch := range intp.container.Header.FontCharacterProperties.Characters {
		code, err := ch.Code()
		if err != nil {
			return err
		}
		size := "-"
		if e, ok := intp.container.Entry(ejf.EntryName(code)); ok {
			size = strconv.Itoa(len(e.Data))
		}
		data = append(data, []string{
			ejf.EntryName(code),
			charset.Describe(code),
			strconv.FormatUint(uint64(ch.LeftSpace), 10),
			strconv.FormatUint(uint64(ch.RightSpace), 10),
			size,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(intp.out).Render()
}

func (intp *Intp) show(arg string) error {
	code, err := charset.ParseCode(arg)
	if err != nil {
		return err
	}
	img, err := intp.container.Image(code)
	if err != nil {
		return err
	}
	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	canvas := &glyph.Canvas{Code: code, Image: gray}
	fmt.Fprintf(intp.out, "%s, %dx%d\n%s", charset.Describe(code), canvas.Width(), canvas.Height(),
		glyph.Dump(canvas, 0))
	return nil
}
