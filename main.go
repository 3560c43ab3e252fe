package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/drillbot/internal/bot"
	"github.com/example/drillbot/internal/database"
	"github.com/example/drillbot/internal/excel"
	"github.com/example/drillbot/internal/progress"
	"github.com/example/drillbot/internal/scheduler"
	"github.com/example/drillbot/internal/session"
	"github.com/example/drillbot/pkg/models"
)

func main() {
	// .env необязателен — переменные могут прийти из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	importFile := flag.String("import", "", "import a word list from an .xlsx/.csv file and exit")
	importName := flag.String("name", "", "dictionary name for -import (defaults to the file name)")
	flag.Parse()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importFile != "" {
		runImport(*importFile, *importName)
		return
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	sessionRepo := database.NewSessionRepository()
	manager := session.NewManager(sessionRepo)
	tracker := progress.NewTracker(database.NewProgressRepository())

	b, err := bot.New(token, manager, tracker)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Фоновая очистка: просроченные сессии и неиспользуемые guard'ы
	sched := scheduler.New(manager.Registry(), sessionRepo)
	sched.Start()
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}

// runImport loads a word pool from a file into the dictionaries table
func runImport(filePath, name string) {
	result, err := excel.ImportWords(excel.DefaultImportConfig(filePath))
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	if len(result.Words) == 0 {
		log.Fatalf("Import produced no words (%d rows processed, %d skipped)", result.TotalProcessed, result.Skipped)
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	dict := &models.Dictionary{
		ID:    uuid.NewString()[:8],
		Name:  name,
		Words: result.Words,
	}
	if err := database.NewDictionaryRepository().Create(dict); err != nil {
		log.Fatalf("Failed to save dictionary: %v", err)
	}

	for _, e := range result.Errors {
		log.Printf("Import note: %s", e)
	}
	log.Printf("Imported dictionary %q (%s): %d words, %d rows skipped",
		dict.Name, dict.ID, len(dict.Words), result.Skipped)
}
