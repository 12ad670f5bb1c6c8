package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

const serverAddr = ":8743"

func main() {
	fmt.Println("Mudra - Hand Tracking Pointer Control")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	enabled, err := st.Settings().GetDefault(store.SettingControlEnabled, "0")
	if err != nil {
		log.Fatalf("Failed to read settings: %v", err)
	}

	events := server.NewEventsHandler()
	t := tray.New(enabled == "1")

	application := app.New(app.Config{
		Store:  st,
		Events: events,
		OnReport: func(rep pipeline.Report) {
			t.SetStatus(fmt.Sprintf("%.1f fps, %.0f ms", rep.FPS, rep.AvgLatencyMs))
		},
	})
	application.SetEnabled(enabled == "1")

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer application.Stop()

	// Configure and start the HTTP API
	srv := server.New(server.Config{
		StaticDir: findWebDir(),
		Store:     st,
		Events:    events,
		Status:    application.IsEnabled,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", serverAddr)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main thread until quit.
	t.OnToggle(func(on bool) {
		application.SetEnabled(on)
		value := "0"
		if on {
			value = "1"
		}
		if err := st.Settings().Set(store.SettingControlEnabled, value); err != nil {
			log.Printf("Failed to persist control state: %v", err)
		}
	})
	t.OnSettings(func() {
		openBrowser("http://localhost" + serverAddr)
	})
	t.OnQuit(func() {
		application.Stop()
	})
	t.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
