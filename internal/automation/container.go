// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package automation

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pdiddy/pptx2pdf/internal/container"
	"github.com/pdiddy/pptx2pdf/internal/logging"
)

const (
	nameContainer = "container"

	// DefaultImage is the container image expected to provide soffice.
	DefaultImage = "pptx2pdf-office:latest"

	containerIn  = "/in"
	containerOut = "/out"
)

// ContainerOffice runs LibreOffice inside a container image, for hosts
// without an office suite installed. The container runtime is detected at
// connect time.
type ContainerOffice struct {
	image  string
	detect func() (container.Runtime, error)
	log    logging.Logger
}

// NewContainerOffice creates the container backend for image. An empty
// image selects DefaultImage.
func NewContainerOffice(image string, log logging.Logger) *ContainerOffice {
	if image == "" {
		image = DefaultImage
	}
	return &ContainerOffice{
		image:  image,
		detect: container.DetectRuntime,
		log:    logging.OrNoOp(log),
	}
}

func (c *ContainerOffice) Name() string { return nameContainer }

func (c *ContainerOffice) Available() bool {
	rt, err := c.detect()
	if err != nil {
		return false
	}
	return rt.ImageExists(c.image) == nil
}

// Connect detects a runtime and verifies that the office image exists
// locally. No long-lived container is started; each save runs a throwaway
// container.
func (c *ContainerOffice) Connect() (Session, error) {
	rt, err := c.detect()
	if err != nil {
		return nil, err
	}
	if err := rt.ImageExists(c.image); err != nil {
		return nil, fmt.Errorf("office image not available in %s: %w", rt.Name(), err)
	}
	c.log.Debug("connected to container office", "runtime", rt.Name(), "image", c.image)
	return &containerSession{runtime: rt, image: c.image, log: c.log}, nil
}

type containerSession struct {
	runtime container.Runtime
	image   string
	log     logging.Logger
	closed  bool
}

func (s *containerSession) Open(path string) (Document, error) {
	if s.closed {
		return nil, errors.New("session already quit")
	}
	if err := checkSource(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	return &officeDocument{
		source:  abs,
		convert: s.convert,
		log:     s.log,
	}, nil
}

// convert mounts the source directory read-only and outDir writable, then
// runs a headless conversion inside the image.
func (s *containerSession) convert(src, outDir string) error {
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", outDir, err)
	}
	return s.runtime.Run(container.RunSpec{
		Image: s.image,
		Mounts: []container.Mount{
			{HostPath: filepath.Dir(src), ContainerPath: containerIn, ReadOnly: true},
			{HostPath: absOut, ContainerPath: containerOut},
		},
		Args: []string{
			"soffice", "--headless", "--norestore",
			"--convert-to", "pdf",
			"--outdir", containerOut,
			containerIn + "/" + filepath.Base(src),
		},
	})
}

func (s *containerSession) Quit() error {
	s.closed = true
	return nil
}
