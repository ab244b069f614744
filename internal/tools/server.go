package tools

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/leandrodaf/synthmidi/internal/logger"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const instructions = `Controls an Elektron Digitone and a Moog Sub 37 over MIDI.
Call list_midi_ports and connect_midi_port before sending parameters.
Digitone tools take a track (1-16), which is also the MIDI channel.
Sub 37 tools default to MIDI channel 3.`

// NewServer registers every tool of catalog on a new MCP server.
func NewServer(name, version string, catalog *Catalog, log contracts.Logger) *server.MCPServer {
	srv := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithToolHandlerMiddleware(logCalls(log)),
		server.WithRecovery(),
	)
	srv.AddTools(catalog.Tools()...)
	return srv
}

// logCalls tags every tool call with an id and logs its outcome.
func logCalls(log contracts.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			callLog := log.With(
				log.Field().String("tool", req.Params.Name),
				log.Field().String("call", uuid.NewString()))
			start := time.Now()

			res, err := next(ctx, req)

			elapsed := log.Field().Int64("elapsed_us", time.Since(start).Microseconds())
			switch {
			case err != nil:
				callLog.Error("Tool call errored", elapsed, log.Field().Error("error", err))
			case res != nil && res.IsError:
				callLog.Warn("Tool call returned an error result", elapsed)
			default:
				callLog.Debug("Tool call completed", elapsed)
			}
			return res, err
		}
	}
}

// Serve runs srv over the stdio transport until ctx is done or in closes.
func Serve(ctx context.Context, srv *server.MCPServer, in io.Reader, out io.Writer, log contracts.Logger) error {
	stdio := server.NewStdioServer(srv)
	stdio.SetErrorLogger(logger.NewStdLog(log))

	log.Info("Serving tools over stdio")
	err := stdio.Listen(ctx, in, out)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
