package main

import (
	"context"
	"io"
	"os"
	"time"

	web2pdf "github.com/alnah/go-web2pdf"
)

// pipelineRunner is the part of *web2pdf.Pipeline the CLI drives.
type pipelineRunner interface {
	Run(ctx context.Context, urls []string) (*web2pdf.RunReport, error)
	ConvertOnly(ctx context.Context, urls []string) (*web2pdf.RunReport, error)
	MergeOnly(ctx context.Context) (*web2pdf.MergeReport, error)
	MergedPath() string
}

var _ pipelineRunner = (*web2pdf.Pipeline)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and the pipeline factory.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Getenv      func(string) string
	Environ     func() []string
	NewPipeline func(opts ...web2pdf.Option) (pipelineRunner, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewPipeline: func(opts ...web2pdf.Option) (pipelineRunner, error) {
			return web2pdf.New(opts...)
		},
	}
}
