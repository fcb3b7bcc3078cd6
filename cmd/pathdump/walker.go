package main

import (
	"context"
	"fmt"
	"io"

	"raybrowser/internal/api"
	"raybrowser/internal/log"
	"raybrowser/internal/session"
)

type walkRequest struct {
	Key      api.RegionKey
	Location int
	Steps    int
	Graph    string
}

// walker prints one element per tick once the element under the cursor is
// cached, then steps forward. It only runs on the loop goroutine.
type walker struct {
	sess    *session.Session
	req     walkRequest
	out     io.Writer
	printed int
	done    chan error
	stopped bool
}

func newWalker(sess *session.Session, req walkRequest, out io.Writer) *walker {
	return &walker{
		sess: sess,
		req:  req,
		out:  out,
		done: make(chan error, 1),
	}
}

func (w *walker) start() {
	w.sess.Manager.Reset()
	w.sess.Manager.AddRegion(w.req.Key, w.req.Location)
	log.Info("walk started", "region", w.req.Key, "location", w.req.Location, "steps", w.req.Steps)
}

func (w *walker) tick() {
	if w.stopped {
		return
	}
	mgr := w.sess.Manager
	mgr.DoReadahead()

	for w.printed < w.req.Steps {
		element, ok := mgr.CurrentElement()
		if !ok {
			return
		}
		location, _ := mgr.CurrentLocation()
		fmt.Fprintf(w.out, "%d\t%s\t%s\n", location, element, w.coverage(element))
		w.printed++

		r, _ := mgr.Selected()
		if location == r.Length()-1 {
			break
		}
		mgr.Next()
	}

	w.finish()
}

func (w *walker) coverage(element string) string {
	if detail, ok := w.sess.Store.Detail(element); ok {
		return fmt.Sprint(detail.Coverage)
	}
	if c, ok := w.sess.Graph.Coverage(element); ok {
		return fmt.Sprint(c)
	}
	return "-"
}

func (w *walker) finish() {
	w.stopped = true
	var err error
	if w.req.Graph != "" {
		err = w.sess.ExportGraph(context.Background(), w.req.Graph)
	}
	log.Info("walk finished", "printed", w.printed)
	w.done <- err
}
