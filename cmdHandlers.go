package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"

	"sample-sorter/audiofile"
	"sample-sorter/classify"
	"sample-sorter/db"
	"sample-sorter/embedding"
	"sample-sorter/organizer"
	"sample-sorter/utils"
	"sample-sorter/watcher"
)

type apiError struct {
	Message string `json:"message"`
}

// buildClassifier assembles the fusion pipeline from environment
// configuration. SORTER_STRATEGY picks heuristic-only or hybrid;
// SORTER_ON_MODEL_ERROR picks the degraded-mode policy.
func buildClassifier() *classify.Classifier {
	cfg := classify.Config{}

	strategy := strings.ToLower(utils.GetEnv("SORTER_STRATEGY", string(classify.StrategyHybrid)))
	switch strategy {
	case string(classify.StrategyHeuristic):
		cfg.Strategy = classify.StrategyHeuristic
	case string(classify.StrategyHybrid):
		cfg.Strategy = classify.StrategyHybrid
	default:
		log.Fatalf("invalid SORTER_STRATEGY value '%s' (want heuristic or hybrid)", strategy)
	}

	policy := strings.ToLower(utils.GetEnv("SORTER_ON_MODEL_ERROR", string(classify.PolicyHeuristicFallback)))
	switch policy {
	case string(classify.PolicyHeuristicFallback):
		cfg.OnModelError = classify.PolicyHeuristicFallback
	case string(classify.PolicyFail):
		cfg.OnModelError = classify.PolicyFail
	default:
		log.Fatalf("invalid SORTER_ON_MODEL_ERROR value '%s' (want heuristic or fail)", policy)
	}

	if cfg.Strategy == classify.StrategyHybrid {
		client := embedding.NewClient(utils.GetEnv("SORTER_MODEL_URL", ""))
		if err := client.HealthCheck(); err != nil {
			log.Printf("WARNING: %v", err)
			log.Printf("Classification will degrade per SORTER_ON_MODEL_ERROR=%s until the model is reachable.", policy)
		} else {
			log.Println("Embedding model service is available")
		}
		cfg.Model = client
	}

	return classify.New(cfg)
}

// buildOrganizer assembles the file mover with its ledger. The returned
// cleanup closes the ledger.
func buildOrganizer(classifier *classify.Classifier) (*organizer.Organizer, func()) {
	libraryDir := utils.GetEnv("SORTER_LIBRARY_DIR", "library")
	moveFiles := strings.EqualFold(utils.GetEnv("SORTER_MOVE_FILES", "false"), "true")

	ledgerPath := utils.GetEnv("SORTER_LEDGER_PATH", filepath.Join("data", "sorter.db"))
	ledger, err := db.NewSQLiteClient(ledgerPath)
	if err != nil {
		log.Fatalf("failed to open ledger database: %v", err)
	}

	org := organizer.New(classifier, ledger, libraryDir, moveFiles)
	return org, func() { _ = ledger.Close() }
}

func watchCommand(dir string) {
	classifier := buildClassifier()
	org, cleanup := buildOrganizer(classifier)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(org, watcher.DefaultSettleDelay)
	if err := w.Watch(ctx, dir); err != nil && err != context.Canceled {
		log.Fatalf("watch failed: %v", err)
	}
}

func sortCommand(dir string) {
	classifier := buildClassifier()
	org, cleanup := buildOrganizer(classifier)
	defer cleanup()

	summary, err := org.ProcessDirectory(context.Background(), dir)
	if err != nil {
		log.Fatalf("sort failed: %v", err)
	}

	log.Printf("Sorted %d samples (%d skipped, %d failed)",
		len(summary.Processed), summary.Skipped, len(summary.Failures))
	for _, failure := range summary.Failures {
		log.Printf("  FAILED %s: %v", failure.Path, failure.Err)
	}
	if len(summary.Failures) > 0 {
		os.Exit(1)
	}
}

func classifyCommand(path string) {
	classifier := buildClassifier()

	clip, err := audiofile.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to decode %s: %v", path, err)
	}

	outcome, err := classifier.Classify(clip.Samples, clip.SampleRate)
	if err != nil {
		log.Fatalf("failed to classify %s: %v", path, err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(outcome); err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Message: message})
}

// newClassifyUploadHandler accepts a multipart audio upload and returns the
// classification outcome as JSON.
func newClassifyUploadHandler(classifier *classify.Classifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		if err := r.ParseMultipartForm(64 << 20); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid upload payload")
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "audio file is required")
			return
		}
		defer file.Close()

		if !audiofile.SupportedExtension(header.Filename) {
			writeJSONError(w, http.StatusBadRequest, "unsupported audio format")
			return
		}

		// land the upload in a temp file so the decoder can dispatch on
		// extension
		tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to stage upload")
			return
		}
		tmpPath := tmp.Name()
		defer os.Remove(tmpPath)

		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			writeJSONError(w, http.StatusInternalServerError, "failed to stage upload")
			return
		}
		tmp.Close()

		clip, err := audiofile.ReadFile(tmpPath)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "unable to decode audio")
			return
		}

		outcome, err := classifier.Classify(clip.Samples, clip.SampleRate)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, outcome)
	}
}

func serve(port string) {
	allowOriginFunc := func(r *http.Request) bool {
		return true
	}

	classifier := buildClassifier()
	controller := newSocketController(classifier)

	server := socketio.NewServer(&engineio.Options{
		PingTimeout:  60 * time.Second,
		PingInterval: 25 * time.Second,
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: allowOriginFunc,
			},
			&polling.Transport{
				CheckOrigin: allowOriginFunc,
			},
		},
	})

	server.OnConnect("/", func(socket socketio.Conn) error {
		socket.SetContext("")
		log.Printf("CONNECTED: %s, remote addr: %s\n", socket.ID(), socket.RemoteAddr())
		controller.emitVocabulary(socket)
		return nil
	})

	server.OnEvent("/", "requestVocabulary", func(socket socketio.Conn) {
		controller.emitVocabulary(socket)
	})

	server.OnEvent("/", "newSample", func(socket socketio.Conn, msg string) {
		// run in a goroutine so a slow model call does not block the socket
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("panic in handleNewSample for socket %s: %v\n", socket.ID(), r)
					socket.Emit("analysisError", map[string]string{"message": "internal server error during processing"})
				}
			}()
			controller.handleNewSample(socket, msg)
		}()
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("socket error:", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Printf("Socket disconnected - ID: %s, Reason: %s\n", s.ID(), reason)
	})

	go func() {
		if err := server.Serve(); err != nil {
			log.Fatalf("socket.io serve error: %v", err)
		}
	}()
	defer server.Close()

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	mux.HandleFunc("/classify", newClassifyUploadHandler(classifier))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	addr := ":" + port
	log.Printf("Starting HTTP server on %s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("HTTP server ListenAndServe: %v", err)
	}
}
