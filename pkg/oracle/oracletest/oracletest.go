// Package oracletest provides a scripted, deterministic oracle for testing
// code that drives the layout routines.
package oracletest

import (
	"sync"

	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/oracle"
)

var _ oracle.Oracle = (*Oracle)(nil)

// Oracle answers from scripted values.
//
// TightMargins returns MarginsFunc's answer when set, otherwise pops Margins
// in order and repeats the last entry once the queue is drained. With nothing
// scripted it echoes the figure's current parameters.
//
// BBox returns Boxes[a] when present; otherwise axes report their position
// and texts are placed using TextExtent.
//
// TextExtent treats every rune as CharWidth inches wide and every line as
// LineHeight inches tall, ignoring the font size.
type Oracle struct {
	Margins     []figure.MarginSet
	MarginsFunc func(fig *figure.Figure, pad float64, rect figure.Rect) (figure.MarginSet, error)
	Boxes       map[figure.Artist]figure.Rect
	CharWidth   float64
	LineHeight  float64

	mu         sync.Mutex
	tightCalls int
	bboxCalls  int
	textCalls  int
	lastRect   figure.Rect
}

// New returns an oracle that measures 0.1 inch per rune and 0.15 inch per line.
func New(margins ...figure.MarginSet) *Oracle {
	return &Oracle{
		Margins:    margins,
		Boxes:      make(map[figure.Artist]figure.Rect),
		CharWidth:  0.1,
		LineHeight: 0.15,
	}
}

func (o *Oracle) TightMargins(fig *figure.Figure, pad float64, rect figure.Rect) (figure.MarginSet, error) {
	o.mu.Lock()
	o.tightCalls++
	o.lastRect = rect
	fn := o.MarginsFunc
	var next *figure.MarginSet
	if len(o.Margins) > 0 {
		m := o.Margins[0]
		if len(o.Margins) > 1 {
			o.Margins = o.Margins[1:]
		}
		next = &m
	}
	o.mu.Unlock()

	if fn != nil {
		return fn(fig, pad, rect)
	}
	if next == nil {
		return fig.Params(), nil
	}
	return *next, nil
}

func (o *Oracle) BBox(fig *figure.Figure, a figure.Artist) (figure.Rect, error) {
	o.mu.Lock()
	o.bboxCalls++
	r, ok := o.Boxes[a]
	o.mu.Unlock()
	if ok {
		return r, nil
	}

	switch v := a.(type) {
	case *figure.Axes:
		return v.Position(), nil
	case *figure.Text:
		tw, th, _ := o.TextExtent(fig, v.Content, v.Size(fig.FontSize()))
		w, h := fig.Size()
		return v.Place(tw/w, th/h), nil
	}
	return figure.Rect{}, nil
}

func (o *Oracle) TextExtent(_ *figure.Figure, s string, _ float64) (float64, float64, error) {
	o.mu.Lock()
	o.textCalls++
	o.mu.Unlock()

	if s == "" {
		return 0, 0, nil
	}
	lines, widest, cur := 1, 0, 0
	for _, r := range s {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		widest = max(widest, cur)
	}
	return float64(widest) * o.CharWidth, float64(lines) * o.LineHeight, nil
}

// Calls returns the number of TightMargins, BBox and TextExtent calls so far.
func (o *Oracle) Calls() (tight, bbox, text int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tightCalls, o.bboxCalls, o.textCalls
}

// LastRect returns the layout rect passed to the most recent TightMargins call.
func (o *Oracle) LastRect() figure.Rect {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastRect
}
