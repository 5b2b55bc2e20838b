// Package cli is the interactive control surface: a line-oriented shell
// over the motion commands of one or more axes. All user-facing
// workflows live here; the motor layer exposes nothing beyond its
// motion, limit, calibration and config calls.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chmarti1/rumble/motor"
)

// Shell dispatches typed commands to the selected axis. Moves issued
// from the shell block until their advisory completion time so the
// prompt only returns once the stage should have stopped.
type Shell struct {
	axes  map[string]*motor.Axis
	order []string
	cur   *motor.Axis
	out   io.Writer
}

// NewShell builds a shell over the given axes. The first axis starts
// selected.
func NewShell(axes []*motor.Axis, out io.Writer) *Shell {
	s := &Shell{
		axes: make(map[string]*motor.Axis, len(axes)),
		out:  out,
	}
	for _, a := range axes {
		s.axes[a.Name()] = a
		s.order = append(s.order, a.Name())
	}
	if len(axes) > 0 {
		s.cur = axes[0]
	}
	return s
}

// Run reads commands until EOF or quit.
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	s.prompt()
	for scanner.Scan() {
		if s.exec(scanner.Text()) {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *Shell) prompt() {
	if s.cur != nil {
		fmt.Fprintf(s.out, "%s> ", s.cur.Name())
	} else {
		fmt.Fprintf(s.out, "> ")
	}
}

// exec runs one command line, reporting true for quit.
func (s *Shell) exec(line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	cmd, args := args[0], args[1:]

	if cmd == "quit" || cmd == "exit" {
		return true
	}
	if cmd == "help" {
		s.help()
		return false
	}
	if cmd == "axis" {
		s.selectAxis(args)
		return false
	}
	if s.cur == nil {
		fmt.Fprintf(s.out, "no axis selected\n")
		return false
	}

	var err error
	switch cmd {
	case "status":
		s.status()
	case "go":
		err = s.move(args, false, s.cur.GoTo, s.cur.GoToPhysical)
	case "inc":
		err = s.move(args, false, s.cur.Increment, s.cur.IncrementPhysical)
	case "goc":
		err = s.move(args, true, s.cur.GoTo, s.cur.GoToPhysical)
	case "incc":
		err = s.move(args, true, s.cur.Increment, s.cur.IncrementPhysical)
	case "home":
		err = s.home(args)
	case "cal":
		err = s.cal(args)
	case "lim":
		err = s.lim(args)
	case "invert":
		err = s.invert(args)
	case "freq":
		err = s.freq(args)
	case "save":
		err = s.file(args, s.cur.Save)
	case "load":
		err = s.file(args, s.cur.Load)
	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.out, "error: %s\n", err)
	}
	return false
}

func (s *Shell) help() {
	fmt.Fprint(s.out, `commands:
  status                       position, limits and clock readback
  go <counts> | goc <value>    move to an absolute position
  inc <counts> | incc <value>  move by a relative amount
  home <increment> [tries]     seek the home switch
  cal <zero> <slope> <units>   set the linear calibration
  lim upper|lower <counts>     set a software limit in counts
  lim upper|lower cal <value>  set a software limit in calibrated units
  lim upper|lower here         limit at the current position
  lim upper|lower clear        remove a software limit
  invert on|off                reverse the physical direction
  freq [hz]                    show or set the shared pulse rate
  save <file> | load <file>    persist or restore the configuration
  axis [name]                  list axes or select one
  quit
`)
}

func (s *Shell) selectAxis(args []string) {
	if len(args) == 0 {
		for _, name := range s.order {
			marker := " "
			if s.axes[name] == s.cur {
				marker = "*"
			}
			fmt.Fprintf(s.out, "%s %s\n", marker, name)
		}
		return
	}
	a, ok := s.axes[args[0]]
	if !ok {
		fmt.Fprintf(s.out, "no axis named %q\n", args[0])
		return
	}
	s.cur = a
}

func (s *Shell) status() {
	a := s.cur
	cal := a.Calibration()
	fmt.Fprintf(s.out, "position: %d counts (%g %s)\n", a.Counts(), a.Position(), cal.Units)
	lim := a.Limits()
	switch {
	case lim.Lower != nil && lim.Upper != nil:
		fmt.Fprintf(s.out, "limits: [%d, %d], at limit: %t\n", *lim.Lower, *lim.Upper, a.LimitState())
	case lim.Lower != nil:
		fmt.Fprintf(s.out, "limits: [%d, -], at limit: %t\n", *lim.Lower, a.LimitState())
	case lim.Upper != nil:
		fmt.Fprintf(s.out, "limits: [-, %d], at limit: %t\n", *lim.Upper, a.LimitState())
	default:
		fmt.Fprintf(s.out, "limits: none\n")
	}
	if hz, err := a.ClockHz(); err != nil {
		fmt.Fprintf(s.out, "clock: unreadable (%s)\n", err)
	} else {
		fmt.Fprintf(s.out, "clock: %g Hz\n", hz)
	}
}

func (s *Shell) move(args []string, calibrated bool,
	raw func(int64, bool) error, phys func(float64, bool) error,
) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one value, got %d", len(args))
	}
	if calibrated {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		if err := phys(v, true); err != nil {
			return err
		}
	} else {
		v, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		if err := raw(v, true); err != nil {
			return err
		}
	}
	fmt.Fprintf(s.out, "at %d counts\n", s.cur.Counts())
	return nil
}

func (s *Shell) home(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: home <increment> [tries]")
	}
	increment, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}
	tries := motor.DefaultHomeTries
	if len(args) == 2 {
		if tries, err = strconv.Atoi(args[1]); err != nil {
			return err
		}
	}
	found, err := s.cur.Home(increment, tries)
	if err != nil {
		return err
	}
	if found {
		fmt.Fprintf(s.out, "home found at %d counts\n", s.cur.Counts())
	} else {
		fmt.Fprintf(s.out, "home not found within %d increments\n", tries)
	}
	return nil
}

func (s *Shell) cal(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: cal <zero> <slope> <units>")
	}
	zero, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return err
	}
	slope, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return err
	}
	return s.cur.SetCalibration(zero, slope, args[2])
}

func (s *Shell) lim(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: lim upper|lower <counts>|cal <value>|here|clear")
	}
	upper := false
	switch args[0] {
	case "upper":
		upper = true
	case "lower":
	default:
		return fmt.Errorf("usage: lim upper|lower ...")
	}

	switch args[1] {
	case "here":
		if upper {
			s.cur.SetUpperLimitHere()
		} else {
			s.cur.SetLowerLimitHere()
		}
	case "clear":
		if upper {
			s.cur.ClearUpperLimit()
		} else {
			s.cur.ClearLowerLimit()
		}
	case "cal":
		if len(args) != 3 {
			return fmt.Errorf("usage: lim %s cal <value>", args[0])
		}
		v, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return err
		}
		if upper {
			s.cur.SetUpperLimitPhysical(v)
		} else {
			s.cur.SetLowerLimitPhysical(v)
		}
	default:
		v, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return err
		}
		if upper {
			s.cur.SetUpperLimit(v)
		} else {
			s.cur.SetLowerLimit(v)
		}
	}
	return nil
}

func (s *Shell) invert(args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return fmt.Errorf("usage: invert on|off")
	}
	s.cur.SetInvert(args[0] == "on")
	return nil
}

func (s *Shell) freq(args []string) error {
	if len(args) == 0 {
		hz, err := s.cur.ClockHz()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%g Hz\n", hz)
		return nil
	}
	hz, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return err
	}
	// Retunes every axis on the device, the generator is shared.
	return s.cur.SetClockHz(hz)
}

func (s *Shell) file(args []string, op func(string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("expected a file name")
	}
	return op(args[0])
}
