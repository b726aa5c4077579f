package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"therapist-discovery-backend/bot"
	"therapist-discovery-backend/internal/community"
	"therapist-discovery-backend/internal/config"
	"therapist-discovery-backend/internal/database"
	"therapist-discovery-backend/internal/directory"
	"therapist-discovery-backend/internal/flow"
	"therapist-discovery-backend/internal/logger"
	"therapist-discovery-backend/internal/registration"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gopkg.in/fsnotify.v1"
)

func main() {
	var (
		cnf = &config.Conf{}

		configFile = flag.String("config", "./config/config.yml", "Usage: -config=<config_file>")
		debug      = flag.Bool("debug", false, "Print debug information on stderr")
		runImport  = flag.Bool("import", false, "Convert the upload CSV into the directory file and exit")
	)

	flag.Parse()

	config.GetConfig(*configFile, cnf)
	cnf.RunInDebug = *debug

	logFile := logger.InitLogger(*debug, *configFile)
	if logFile != nil {
		defer logFile.Close()
	}
	logger.Info("Application starting...")

	if *debug {
		logger.Debug("Config:", cnf)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	dir := directory.New(cnf.TherapistsFile(), cnf.LockTimeoutDuration())

	if *runImport {
		importDirectory(cnf, dir)
		return
	}

	cache := database.ConnectInMemoryCache()
	graph := flow.InitGraph(cnf.FlowConfig)
	board := community.NewBoard(cnf.CommunityFile(), cnf.LockTimeoutDuration())
	book := registration.NewBook(cnf.RegistrationsFile(), cnf.LockTimeoutDuration())

	app := gin.Default()
	app.Use(cors.Default())
	app.Use(
		config.Inject("cnf", cnf),
		database.InjectInMemoryCache("cache", cache),
		flow.InjectGraph("flow", graph),
		community.InjectBoard("board", board),
		registration.InjectBook("registrations", book),
		directory.Inject("directory", dir),
	)

	bot.InitRoutes(app)

	srv := &http.Server{
		Addr:    cnf.Server.Listen,
		Handler: app,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Listen: %s\n", err)
		}
	}()

	// Watch the flow config for edits.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Crit(err)
	}
	defer watcher.Close()
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				logger.Debug("Flow config event:", event.String())
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					if err := graph.UpdateGraph(cnf.FlowConfig); err != nil {
						logger.Warning("Flow config not valid, keeping the previous graph:", err)
					} else {
						logger.Event("Flow config reloaded")
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warning("Watcher error:", err)
			}
		}
	}()

	if err := watcher.Add(path.Dir(cnf.FlowConfig)); err != nil {
		logger.Warning("Cannot watch the flow config directory:", err)
	}

	logger.Info("Application started")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT)

	quit := make(chan int)

	go func() {
		for {
			sig := <-signals
			switch sig {
			// kill -SIGHUP XXXX
			// kill -SIGINT XXXX or Ctrl+c
			case syscall.SIGHUP, syscall.SIGINT:
				logger.Info("Catch OS signal! Exiting...")

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					log.Fatal("App forced to shutdown:", err)
				}

				logger.Info("Application stopped correctly!")

				quit <- 0
			default:
				logger.Warning("Unknown signal")
			}
		}
	}()

	code := <-quit

	os.Exit(code)
}

// importDirectory is the one-shot -import mode: convert the upload CSV
// and report what the result looks like.
func importDirectory(cnf *config.Conf, dir *directory.Directory) {
	logger.Info("Starting data import...")

	rep, err := dir.Import(cnf.UploadCSVFile())
	if err != nil {
		logger.Crit(err)
	}
	logger.Info("Imported", rep.Accepted, "therapist records")
	if len(rep.Skipped) > 0 {
		logger.Warning("Skipped rows:", rep.Skipped)
	}

	issues, err := dir.Validate()
	if err != nil {
		logger.Crit(err)
	}
	for _, issue := range issues {
		logger.Warning(issue)
	}

	logger.Info("Data import completed")
}
