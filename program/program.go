// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package program holds the WGSL programs that execute recorded batches
// and compiles them to SPIR-V on first use.
//
// Each batch kind maps to one program by name (see gr.BatchKind.ProgramKey).
// A Cache is shared by everything that executes batches for a drawing
// manager; compilation happens at most once per program.
package program

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gogpu/naga"
)

// ErrUnknownProgram is returned for a name with no embedded source.
var ErrUnknownProgram = errors.New("program: unknown program")

//go:embed shaders/*.wgsl
var shaderFS embed.FS

// Names returns the names of all embedded programs, sorted.
func Names() []string {
	entries, err := shaderFS.ReadDir("shaders")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".wgsl"))
	}
	sort.Strings(names)
	return names
}

// Source returns the WGSL source of the named program.
func Source(name string) (string, error) {
	b, err := shaderFS.ReadFile(path.Join("shaders", name+".wgsl"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownProgram, name)
	}
	return string(b), nil
}

// Program is a compiled program.
type Program struct {
	Name   string
	Source string
	SPIRV  []uint32
}

// Compiler turns WGSL into SPIR-V bytes.
type Compiler func(wgsl string) ([]byte, error)

// Option configures a Cache.
type Option func(*Cache)

// WithCompiler replaces the WGSL compiler. The default is naga.Compile.
func WithCompiler(c Compiler) Option {
	return func(cache *Cache) {
		if c != nil {
			cache.compile = c
		}
	}
}

// Cache compiles programs lazily and keeps the results.
// It is safe for concurrent use.
type Cache struct {
	compile Compiler

	mu       sync.Mutex
	programs map[string]*Program
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		compile:  naga.Compile,
		programs: make(map[string]*Program),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the compiled program, compiling it on first request.
// Failed compilations are not cached.
func (c *Cache) Get(name string) (*Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.programs[name]; ok {
		return p, nil
	}
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	spirv, err := c.compile(src)
	if err != nil {
		return nil, fmt.Errorf("program %q: compile: %w", name, err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("program %q: SPIR-V length %d is not a multiple of 4", name, len(spirv))
	}
	p := &Program{Name: name, Source: src, SPIRV: words(spirv)}
	c.programs[name] = p
	Logger().Debug("program: compiled", "name", name, "words", len(p.SPIRV), "elapsed", time.Since(start))
	return p, nil
}

// Len returns the number of compiled programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.programs)
}

// words converts little-endian SPIR-V bytes to words.
func words(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return out
}
