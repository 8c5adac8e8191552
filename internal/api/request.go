// SPDX-License-Identifier: MIT

// Package api serves correlation runs over HTTP and holds the request model shared with the CLI.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/katalvlaran/lvcorr/corr"
	"github.com/katalvlaran/lvcorr/source"
	"github.com/katalvlaran/lvcorr/stats"
	"github.com/katalvlaran/lvcorr/subset"
	"github.com/katalvlaran/lvcorr/table"
)

// Modes reported in Response.Mode.
const (
	ModeMatrix    = "matrix"
	ModeTarget    = "target"
	ModeTargetMap = "target_map"
)

// ErrLocalDisabled is returned for a file or sql: location when local access is off.
var ErrLocalDisabled = errors.New("api: local file access disabled")

// Request describes one correlation run. Empty option strings fall back to the library defaults.
type Request struct {
	Dataset  string              `json:"dataset"`
	Metadata string              `json:"metadata,omitempty"`
	Key      string              `json:"key,omitempty"`
	Select   []string            `json:"select,omitempty"`
	Filter   map[string][]string `json:"filter,omitempty"`
	Targets  []string            `json:"targets,omitempty"`
	Self     string              `json:"self,omitempty"`
	Method   string              `json:"method,omitempty"`
	Adjust   string              `json:"adjust,omitempty"`
	Strategy string              `json:"strategy,omitempty"`
}

// Mode returns the entry point the target count selects.
func (r Request) Mode() string {
	switch len(r.Targets) {
	case 0:
		return ModeMatrix
	case 1:
		return ModeTarget
	default:
		return ModeTargetMap
	}
}

// Options parses the string options into corr options.
// Errors: corr.ErrInvalidOption (wrapping stats.ErrUnknownMethod for methods).
func (r Request) Options() ([]corr.Option, error) {
	var opts []corr.Option
	if r.Self != "" {
		s, err := corr.ParseSelf(r.Self)
		if err != nil {
			return nil, err
		}
		opts = append(opts, corr.WithSelf(s))
	}
	if r.Method != "" {
		m, err := stats.ParseMethod(r.Method)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", corr.ErrInvalidOption, err)
		}
		opts = append(opts, corr.WithMethod(m))
	}
	if r.Adjust != "" {
		a, err := corr.ParseAdjustScope(r.Adjust)
		if err != nil {
			return nil, err
		}
		opts = append(opts, corr.WithAdjustScope(a))
	}
	if r.Strategy != "" {
		s, err := corr.ParseStrategy(r.Strategy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, corr.WithStrategy(s))
	}
	if len(r.Filter) > 0 {
		opts = append(opts, corr.WithFilter(subset.Filter(r.Filter)))
	}
	return opts, nil
}

// Outcome is the JSON form of corr.TargetOutcome.
type Outcome struct {
	Target string `json:"target"`
	Rows   int    `json:"rows"`
	Error  string `json:"error,omitempty"`
}

// Response is the result of Execute.
type Response struct {
	RunID    uuid.UUID       `json:"run_id"`
	Mode     string          `json:"mode"`
	Table    *corr.PairTable `json:"table"`
	Outcomes []Outcome       `json:"outcomes,omitempty"`
}

// Executor loads datasets and runs requests.
type Executor struct {
	Loader     *source.Loader
	AllowLocal bool          // permit file paths and sql: queries
	Base       []corr.Option // applied before the request's own options
}

// Execute loads the request's tables and dispatches on Request.Mode.
// Implementation:
//   - Stage 1: parse options (fatal before any I/O).
//   - Stage 2: load dataset and optional metadata with the request key.
//   - Stage 3: run Matrix, Target or TargetMap.
func (e *Executor) Execute(ctx context.Context, req Request) (*Response, error) {
	// Stage 1 (Options).
	reqOpts, err := req.Options()
	if err != nil {
		return nil, err
	}
	opts := append(append([]corr.Option{}, e.Base...), reqOpts...)

	// Stage 2 (Load).
	ds, err := e.load(ctx, req.Dataset, req.Key)
	if err != nil {
		return nil, err
	}
	if req.Metadata != "" {
		meta, err := e.load(ctx, req.Metadata, req.Key)
		if err != nil {
			return nil, err
		}
		opts = append(opts, corr.WithMetadata(meta))
	}
	sel := subset.Columns(req.Select...)

	// Stage 3 (Dispatch).
	resp := &Response{Mode: req.Mode()}
	switch resp.Mode {
	case ModeMatrix:
		resp.RunID = uuid.New()
		resp.Table, err = corr.Matrix(ds, sel, opts...)
	case ModeTarget:
		resp.RunID = uuid.New()
		resp.Table, err = corr.Target(ctx, ds, req.Targets[0], sel, opts...)
	default:
		var res *corr.Result
		if res, err = corr.TargetMap(ctx, ds, req.Targets, sel, opts...); err == nil {
			resp.RunID, resp.Table = res.RunID, res.Table
			for _, o := range res.Outcomes {
				out := Outcome{Target: o.Target, Rows: o.Rows}
				if o.Err != nil {
					out.Error = o.Err.Error()
				}
				resp.Outcomes = append(resp.Outcomes, out)
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (e *Executor) load(ctx context.Context, loc, key string) (*table.Table, error) {
	at, err := source.ParseLocation(loc)
	if err != nil {
		return nil, err
	}
	if (at.Scheme == source.SchemeFile || at.Scheme == source.SchemeSQL) && !e.AllowLocal {
		return nil, fmt.Errorf("%q: %w", loc, ErrLocalDisabled)
	}
	loader := e.Loader
	if loader == nil {
		loader = &source.Loader{}
	}
	var opts []source.Option
	if key != "" {
		opts = append(opts, source.WithKey(key))
	}
	return loader.Load(ctx, loc, opts...)
}
