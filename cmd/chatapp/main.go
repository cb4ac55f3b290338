package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/AadhishGIT/ChatApp/config"
	"github.com/AadhishGIT/ChatApp/internal/backend"
	"github.com/AadhishGIT/ChatApp/internal/chat"
	"github.com/AadhishGIT/ChatApp/internal/controller"
	"github.com/AadhishGIT/ChatApp/internal/documents"
	"github.com/AadhishGIT/ChatApp/internal/prefs"
	"github.com/AadhishGIT/ChatApp/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", "", "Path to config file (default ~/.chatapp/config.yaml)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Ensure state directory exists
	if err := os.MkdirAll(cfg.Paths.StateDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating state directory: %v\n", err)
		os.Exit(1)
	}

	// Log to a file so the TUI surface stays clean
	logger, closeLog, err := setupLogger(cfg.Paths.StateDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := chat.NewStore()
	pstore := prefs.NewStore(cfg.Paths.StateDir)
	client := backend.New(cfg, logger.WithField("component", "backend"))
	checker := documents.NewChecker()

	maxSize := int64(cfg.Upload.MaxFileSizeMB) * 1024 * 1024
	ctrl := controller.New(store, client, checker, maxSize, logger.WithField("component", "controller"))

	m := tui.NewModel(store, ctrl, pstore, client, logger.WithField("component", "tui"))
	if err := tui.Run(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger directs logrus to a file in the state dir
func setupLogger(stateDir string) (*logrus.Logger, func(), error) {
	f, err := os.OpenFile(filepath.Join(stateDir, "chatapp.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if os.Getenv("CHATAPP_DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger, func() { f.Close() }, nil
}
