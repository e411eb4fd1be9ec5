// Package config holds the settings of the fmindex command: checkpoint steps from a
// TOML file or flags, and a line-oriented prompter for the ones still missing.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// DefaultPatterns are searched when none are configured.
var DefaultPatterns = []string{"ATGCATG", "TCTCTCTA", "TTCACTACTCTCA"}

type Config struct {
	SAStep    int      `toml:"sa_step"`
	TallyStep int      `toml:"tally_step"`
	Patterns  []string `toml:"patterns"`
}

func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if c.SAStep < 0 || c.TallyStep < 0 {
		return nil, errors.Errorf("config %s: steps must be positive", path)
	}
	return &c, nil
}

// Merge overlays the non-zero values of o on c.
func (c *Config) Merge(o Config) {
	if o.SAStep != 0 {
		c.SAStep = o.SAStep
	}
	if o.TallyStep != 0 {
		c.TallyStep = o.TallyStep
	}
	if len(o.Patterns) > 0 {
		c.Patterns = o.Patterns
	}
}

func (c *Config) PatternsOrDefault() []string {
	if len(c.Patterns) == 0 {
		return DefaultPatterns
	}
	return c.Patterns
}

// LinePrompter asks for each value on Out and reads one line from In.
// An empty answer selects 1.
type LinePrompter struct {
	In  *bufio.Reader
	Out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{In: bufio.NewReader(in), Out: out}
}

func (p *LinePrompter) PromptStep(name string) (int, error) {
	fmt.Fprintf(p.Out, "Insert %s: ", name)
	line, err := p.In.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, errors.Wrapf(err, "reading %s", name)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", name)
	}
	return n, nil
}
