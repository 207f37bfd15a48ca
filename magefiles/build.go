//go:build mage

package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/spaghettifunk/triplanar/engine/plugin"
)

type Build mg.Namespace

const (
	binDir     = "bin"
	shaderDir  = "bin/shaders"
	binaryName = "triplanar"
)

// Compiles the embedded WGSL shaders and writes the SPIR-V next to the binary.
func (Build) Shaders() error {
	return buildShaders()
}

// Tidies the module and builds the binary.
func (Build) Engine() error {
	if err := goTidy(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", filepath.Join(binDir, binaryName), "."), withStream()); err != nil {
		return err
	}
	return nil
}

func buildShaders() error {
	if err := os.MkdirAll(shaderDir, 0o755); err != nil {
		return err
	}
	for _, s := range plugin.Shaders() {
		words, err := plugin.CompileShader(s.Name, s.Source)
		if err != nil {
			return err
		}
		out := make([]byte, len(words)*4)
		for i, w := range words {
			binary.LittleEndian.PutUint32(out[i*4:], w)
		}
		path := filepath.Join(shaderDir, s.Projection.String()+".spv")
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return err
		}
		fmt.Printf("%s -> %s (%d words)\n", s.Name, path, len(words))
	}
	return nil
}
