package main

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trademcp/trademcp/internal/cerebras"
	"github.com/trademcp/trademcp/internal/client"
	"github.com/trademcp/trademcp/internal/util"
)

const defaultAPIURL = "http://localhost:3000"

// stderr logger: stdout belongs to the stdio transport.
func newStderrLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(os.Stderr),
		zap.NewAtomicLevelAt(zap.InfoLevel),
	)
	return zap.New(core).Sugar()
}

func main() {
	logger := newStderrLogger()

	apiURL := os.Getenv("TRADEMCP_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	tools := &toolServer{
		api: client.New(apiURL),
		ai:  cerebras.NewClient(util.NewCerebrasConfig()),
		log: logger,
	}

	s := server.NewMCPServer("trading-mcp-server", "1.0.0")
	tools.register(s)

	logger.Info("Trading MCP server started")
	if err := server.ServeStdio(s); err != nil {
		logger.Fatalf("MCP server error: %v", err)
	}
}
