package cli

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
)

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var target usageError
	return errors.As(err, &target)
}

func (r *Runner) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("fplopt "+name, flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	fs.BoolVar(&r.jsonOutput, "json", r.jsonOutput, "print JSON instead of tables")
	return fs
}

func (r *Runner) parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageError{err: err}
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(r.stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return usageError{err: fmt.Errorf("unexpected arguments")}
	}
	return nil
}

// idList accepts comma separated ids and may be repeated.
type idList []int64

func (l *idList) String() string {
	parts := make([]string, 0, len(*l))
	for _, id := range *l {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func (l *idList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", part)
		}
		*l = append(*l, id)
	}
	return nil
}

// optionalFloat distinguishes "not given" from zero.
type optionalFloat struct {
	value float64
	set   bool
}

func (f *optionalFloat) String() string {
	if !f.set {
		return ""
	}
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

func (f *optionalFloat) Set(value string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", value)
	}
	f.value = v
	f.set = true
	return nil
}

func (f *optionalFloat) ptr() *float64 {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}
