// Package chart provides a chart control object that turns animate, feature
// and store calls into JavaScript snippets for a notebook display layer.
// Calls are collected until Show writes them out; a chart can be shown once.
package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DisplayTarget selects where the notebook renders the chart.
type DisplayTarget string

const (
	DisplayBegin  DisplayTarget = "begin"
	DisplayActual DisplayTarget = "actual"
	DisplayEnd    DisplayTarget = "end"
	DisplayManual DisplayTarget = "manual"
)

// ParseDisplayTarget validates a display target name.
func ParseDisplayTarget(s string) (DisplayTarget, error) {
	switch t := DisplayTarget(s); t {
	case DisplayBegin, DisplayActual, DisplayEnd, DisplayManual:
		return t, nil
	default:
		return "", fmt.Errorf("unknown display target %q", s)
	}
}

var (
	// ErrAlreadyShown is returned by every call made after Show.
	ErrAlreadyShown = errors.New("chart: cannot be used after show")
	// ErrNoAnimation is returned by Animate without animations.
	ErrNoAnimation = errors.New("chart: no animation was set")
)

// Templates hold the JavaScript emitted per call. Placeholders in braces are
// replaced verbatim.
type Templates struct {
	// Animate placeholders: {chart_id} {display_target} {scroll} {chart_target} {chart_anim_opts}
	Animate string
	// Feature placeholders: {chart_id} {name} {enabled}
	Feature string
	// Store placeholders: {chart_id} {id}
	Store string
}

// DefaultTemplates returns the templates understood by the bundled loader.
func DefaultTemplates() Templates {
	return Templates{
		Animate: "window.chartseries.animate(element, '{chart_id}', '{display_target}', {scroll}, " +
			"lib => { return {chart_target} }, {chart_anim_opts});",
		Feature: "window.chartseries.feature(element, '{chart_id}', {name}, {enabled});",
		Store:   "window.chartseries.store(element, '{chart_id}', {id});",
	}
}

// Chart collects JavaScript calls for one chart instance.
type Chart struct {
	id             string
	target         DisplayTarget
	templates      Templates
	newID          func() string
	scrollIntoView bool
	calls          []string
	showed         bool
}

// Option configures a Chart.
type Option func(*Chart)

// WithTemplates replaces the JavaScript templates.
func WithTemplates(t Templates) Option {
	return func(c *Chart) { c.templates = t }
}

// WithIDGenerator replaces the generator used for chart and snapshot ids.
func WithIDGenerator(gen func() string) Option {
	return func(c *Chart) { c.newID = gen }
}

// WithScrollIntoView sets the initial scroll-into-view flag.
func WithScrollIntoView(scroll bool) Option {
	return func(c *Chart) { c.scrollIntoView = scroll }
}

// New creates a chart rendered at target.
func New(target DisplayTarget, opts ...Option) *Chart {
	c := &Chart{
		target:    target,
		templates: DefaultTemplates(),
		newID:     shortID,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.id = c.newID()
	return c
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}

// ID returns the chart id.
func (c *Chart) ID() string {
	return c.id
}

// ScrollIntoView reports whether animate calls scroll the chart into view.
func (c *Chart) ScrollIntoView() bool {
	return c.scrollIntoView
}

// SetScrollIntoView changes the scroll-into-view flag for later calls.
func (c *Chart) SetScrollIntoView(scroll bool) {
	c.scrollIntoView = scroll
}

// Animate emits one animate call. Several animations are merged first; opts
// are passed to the chart library as animation options and may be nil.
func (c *Chart) Animate(opts map[string]any, animations ...Animation) error {
	if len(animations) == 0 {
		return ErrNoAnimation
	}

	animation := animations[0]
	if len(animations) > 1 {
		merger := NewMerger()
		for _, a := range animations {
			if err := merger.Merge(a); err != nil {
				return fmt.Errorf("merging animations: %w", err)
			}
		}
		animation = merger
	}

	target, err := animation.Dump()
	if err != nil {
		return err
	}
	animOpts := "undefined"
	if len(opts) > 0 {
		data, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("encoding animation options: %w", err)
		}
		animOpts = string(data)
	}

	return c.display(c.templates.Animate,
		"{chart_id}", c.id,
		"{display_target}", string(c.target),
		"{scroll}", strconv.FormatBool(c.scrollIntoView),
		"{chart_target}", target,
		"{chart_anim_opts}", animOpts,
	)
}

// Feature switches a chart library feature such as "tooltip".
func (c *Chart) Feature(name string, enabled bool) error {
	encoded, err := json.Marshal(name)
	if err != nil {
		return err
	}
	return c.display(c.templates.Feature,
		"{chart_id}", c.id,
		"{name}", string(encoded),
		"{enabled}", strconv.FormatBool(enabled),
	)
}

// Store saves the current chart state and returns its snapshot id.
func (c *Chart) Store() (string, error) {
	id := c.newID()
	encoded, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	if err := c.display(c.templates.Store, "{chart_id}", c.id, "{id}", string(encoded)); err != nil {
		return "", err
	}
	return id, nil
}

func (c *Chart) display(template string, replacements ...string) error {
	if c.showed {
		return ErrAlreadyShown
	}
	c.calls = append(c.calls, strings.NewReplacer(replacements...).Replace(template))
	return nil
}

// Calls returns the collected JavaScript calls.
func (c *Chart) Calls() []string {
	return append([]string(nil), c.calls...)
}

// Show writes the collected calls as one script block. It succeeds once.
func (c *Chart) Show(w io.Writer) error {
	if c.showed {
		return ErrAlreadyShown
	}
	c.showed = true
	if _, err := fmt.Fprintf(w, "<script>\n%s\n</script>\n", strings.Join(c.calls, "\n")); err != nil {
		return fmt.Errorf("writing chart script: %w", err)
	}
	return nil
}
