package main

import (
	_ "github.com/eleven-am/scene-narrator/docs"
	"github.com/eleven-am/scene-narrator/internal/bootstrap"
)

// @title Scene Narrator API
// @version 1.0.0
// @description Turns object detections from a camera feed into spoken-style narration for blind listeners

// @BasePath /

func main() {
	bootstrap.Run()
}
