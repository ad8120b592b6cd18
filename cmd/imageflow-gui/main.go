// Command imageflow-gui is the desktop front end for building and
// applying filter pipelines interactively.
package main

import (
	"flag"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"imageflow/internal/gui"
)

const (
	appID      = "io.imageflow.gui"
	appVersion = "1.0.0"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	flag.Parse()

	logger := initLogger(*debugMode)
	logger.WithFields(logrus.Fields{
		"version":    appVersion,
		"debug_mode": *debugMode,
	}).Info("Starting ImageFlow")

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(theme.DocumentIcon())
	fyneApp.Settings().SetTheme(theme.DefaultTheme())

	mainApp := gui.NewApplication(fyneApp, logger, *debugMode)
	mainApp.ShowAndRun()

	logger.Info("Application shutting down")
}

func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}
