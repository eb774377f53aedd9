// Package console implements progress display and colored output on terminal
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cheggaaa/pb"
	"github.com/wsxiaoys/terminal/color"

	"github.com/pkgsel/pkgsel/pkgsel"
	"github.com/pkgsel/pkgsel/utils"
)

const (
	codePrint = iota
	codeProgress
	codeHideProgress
	codeStop
	codeFlush
	codeBarEnabled
	codeBarDisabled
)

type printTask struct {
	code    int
	message string
	reply   chan bool
}

// Progress is a progress displaying subroutine, it allows to show download and other operations progress
// mixed with progress bar
type Progress struct {
	stopped  chan bool
	queue    chan printTask
	bar      *pb.ProgressBar
	barShown bool
	out      io.Writer
	terminal bool
}

// Check interface
var (
	_ pkgsel.Progress = (*Progress)(nil)
)

// NewProgress creates new progress instance on stdout
func NewProgress() *Progress {
	return NewProgressWriter(os.Stdout, utils.RunningOnTerminal())
}

// NewProgressWriter creates progress writing to out, bars and colors are shown only if terminal is set
func NewProgressWriter(out io.Writer, terminal bool) *Progress {
	return &Progress{
		stopped:  make(chan bool),
		queue:    make(chan printTask, 100),
		out:      out,
		terminal: terminal,
	}
}

// Start makes progress start its work
func (p *Progress) Start() {
	go p.worker()
}

// Shutdown shuts down progress display
func (p *Progress) Shutdown() {
	p.ShutdownBar()
	p.queue <- printTask{code: codeStop}
	<-p.stopped
}

// Flush waits for all queued messages to be displayed
func (p *Progress) Flush() {
	ch := make(chan bool)
	p.queue <- printTask{code: codeFlush, reply: ch}
	<-ch
}

// InitBar starts progressbar for count bytes or count items
func (p *Progress) InitBar(count int64, isBytes bool) {
	if p.bar != nil {
		panic("bar already initialized")
	}
	if p.terminal {
		p.bar = pb.New(0)
		p.bar.Total = count
		p.bar.NotPrint = true
		p.bar.Callback = func(out string) {
			p.queue <- printTask{code: codeProgress, message: out}
		}

		if isBytes {
			p.bar.SetUnits(pb.U_BYTES)
			p.bar.ShowSpeed = true
		}

		p.queue <- printTask{code: codeBarEnabled}
		p.bar.Start()
	}
}

// ShutdownBar stops progress bar and hides it
func (p *Progress) ShutdownBar() {
	if p.bar == nil {
		return
	}
	p.bar.Finish()
	p.queue <- printTask{code: codeBarDisabled}
	p.bar = nil
	p.queue <- printTask{code: codeHideProgress}
}

// Write is implementation of io.Writer to support updating of progress bar
func (p *Progress) Write(s []byte) (int, error) {
	if p.bar != nil {
		p.bar.Add(len(s))
	}
	return len(s), nil
}

// AddBar increments progress for progress bar
func (p *Progress) AddBar(count int) {
	if p.bar != nil {
		p.bar.Add(count)
	}
}

// Printf does printf but in safe manner: not overwriting progress bar
func (p *Progress) Printf(msg string, a ...interface{}) {
	p.queue <- printTask{code: codePrint, message: fmt.Sprintf(msg, a...)}
}

// ColoredPrintf does printf in colored way + newline
func (p *Progress) ColoredPrintf(msg string, a ...interface{}) {
	if p.terminal {
		p.queue <- printTask{code: codePrint, message: color.Sprintf(msg, a...) + "\n"}
	} else {
		p.Printf(StripColorMarks(msg)+"\n", a...)
	}
}

// StripColorMarks removes @-style color marks, "@@" becomes "@"
func StripColorMarks(msg string) string {
	var inColorMark, inCurly bool
	return strings.Map(func(r rune) rune {
		if inColorMark {
			if inCurly {
				if r == '}' {
					inCurly = false
					inColorMark = false
				}
				return -1
			}
			switch r {
			case '{':
				inCurly = true
				return -1
			case '@':
				inColorMark = false
				return '@'
			}
			inColorMark = false
			return -1
		}

		if r == '@' {
			inColorMark = true
			return -1
		}

		return r
	}, msg)
}

func (p *Progress) clearBar() {
	if p.barShown {
		fmt.Fprint(p.out, "\r\033[2K")
		p.barShown = false
	}
}

func (p *Progress) worker() {
	hasBar := false

	for {
		task := <-p.queue
		switch task.code {
		case codeBarEnabled:
			hasBar = true
		case codeBarDisabled:
			hasBar = false
		case codePrint:
			p.clearBar()
			fmt.Fprint(p.out, task.message)
		case codeProgress:
			if hasBar {
				fmt.Fprint(p.out, "\r"+task.message)
				p.barShown = true
			}
		case codeHideProgress:
			p.clearBar()
		case codeFlush:
			task.reply <- true
		case codeStop:
			p.stopped <- true
			return
		}
	}
}
