package main

import (
	"flag"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/web/server"
	"github.com/golang/glog"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	sceneDir := flag.String("scene-dir", "scenes", "Directory to scan for .yaml scene files")
	flag.Parse()
	defer glog.Flush()

	glog.CopyStandardLogTo("INFO")

	if err := renderer.RegisterMetrics(); err != nil {
		glog.Errorf("Registering metrics: %v", err)
		os.Exit(1)
	}

	webServer := server.NewServer(*port, *sceneDir)

	glog.Infof("Sphere Raytracer Web Server")
	glog.Infof("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(); err != nil {
		glog.Errorf("Error starting server: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}
