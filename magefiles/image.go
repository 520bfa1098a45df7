package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/sh"
)

const officeImage = "pptx2pdf-office:latest"

// officeDockerfile builds a minimal image with a headless LibreOffice.
const officeDockerfile = `FROM debian:bookworm-slim
RUN apt-get update \
 && apt-get install -y --no-install-recommends libreoffice-impress fonts-dejavu fonts-liberation \
 && rm -rf /var/lib/apt/lists/*
`

// Image builds the container image used by the container backend. The
// runtime is taken from $CONTAINER_RUNTIME (default docker).
func Image() error {
	runtime := os.Getenv("CONTAINER_RUNTIME")
	if runtime == "" {
		runtime = "docker"
	}
	env := map[string]string{"DOCKERFILE": officeDockerfile}
	script := fmt.Sprintf(`printf '%%s' "$DOCKERFILE" | %s build -t %s -`, runtime, officeImage)
	if err := sh.RunWith(env, "sh", "-c", script); err != nil {
		return fmt.Errorf("building %s: %w", officeImage, err)
	}
	fmt.Printf("Built image %s\n", officeImage)
	return nil
}
