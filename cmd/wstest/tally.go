package main

import (
	"sort"
	"strconv"
	"sync"

	"bailemos/internal/notifications"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tally counts socket outcomes and received events by type.
type tally struct {
	mu     sync.Mutex
	expect int
	total  int
	byType map[string]int

	open, refused, drops int

	reached chan struct{}
	once    sync.Once
}

func newTally(expect int) *tally {
	return &tally{
		expect: expect,
		byType: map[string]int{
			notifications.EventEnrollmentCreated:  0,
			notifications.EventEnrollmentDecision: 0,
		},
		reached: make(chan struct{}),
	}
}

func (t *tally) record(eventType string) {
	if eventType == "" {
		eventType = "unknown"
	}
	t.mu.Lock()
	t.byType[eventType]++
	t.total++
	hit := t.expect > 0 && t.total >= t.expect
	t.mu.Unlock()
	if hit {
		t.once.Do(func() { close(t.reached) })
	}
}

func (t *tally) connected() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open++
}

func (t *tally) rejected() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refused++
}

func (t *tally) dropped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drops++
}

// done is closed once the expected number of events arrived. It never closes
// when no expectation was set.
func (t *tally) done() <-chan struct{} { return t.reached }

// satisfied reports success: the expected events arrived, or with no
// expectation at least one socket connected.
func (t *tally) satisfied() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.expect > 0 {
		return t.total >= t.expect
	}
	return t.open > 0
}

func (t *tally) render() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	types := make([]string, 0, len(t.byType))
	for k := range t.byType {
		types = append(types, k)
	}
	sort.Strings(types)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Realtime events")
	tw.AppendHeader(table.Row{"Event", "Count"})
	for _, k := range types {
		tw.AppendRow(table.Row{k, strconv.Itoa(t.byType[k])})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"sockets open", strconv.Itoa(t.open)})
	tw.AppendRow(table.Row{"sockets refused", strconv.Itoa(t.refused)})
	tw.AppendRow(table.Row{"sockets dropped", strconv.Itoa(t.drops)})
	expect := "-"
	if t.expect > 0 {
		expect = strconv.Itoa(t.total) + "/" + strconv.Itoa(t.expect)
	}
	tw.AppendFooter(table.Row{"expected", expect})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	return tw.Render()
}
