// Package tools exposes synth parameters and port management as MCP tools.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/leandrodaf/synthmidi/sdk/params"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Catalog holds every tool handler, bound to one transport and one registry.
type Catalog struct {
	transport contracts.ClientMIDI
	registry  *params.Registry
	logger    contracts.Logger
	tools     map[string]server.ServerTool
}

// NewCatalog builds the port tools and one tool per parameter of each instrument.
func NewCatalog(transport contracts.ClientMIDI, registry *params.Registry, logger contracts.Logger) (*Catalog, error) {
	c := &Catalog{
		transport: transport,
		registry:  registry,
		logger:    logger,
		tools:     make(map[string]server.ServerTool),
	}

	builders := []func() ([]server.ServerTool, error){
		c.portTools,
		c.digitoneTools,
		c.sub37Tools,
	}
	for _, build := range builders {
		tools, err := build()
		if err != nil {
			return nil, err
		}
		for _, t := range tools {
			if _, dup := c.tools[t.Tool.Name]; dup {
				return nil, fmt.Errorf("duplicate tool name %q", t.Tool.Name)
			}
			c.tools[t.Tool.Name] = t
		}
	}
	logger.Info("Tool catalog built", logger.Field().Int("tools", len(c.tools)))
	return c, nil
}

// Names returns the tool names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns every tool in name order.
func (c *Catalog) Tools() []server.ServerTool {
	out := make([]server.ServerTool, 0, len(c.tools))
	for _, name := range c.Names() {
		out = append(out, c.tools[name])
	}
	return out
}

// Tool returns one tool by name.
func (c *Catalog) Tool(name string) (server.ServerTool, bool) {
	t, ok := c.tools[name]
	return t, ok
}

// Call invokes a tool handler directly, bypassing the protocol layer.
func (c *Catalog) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t, ok := c.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return t.Handler(ctx, req)
}

// result turns a controller error into a tool result. Lookup failures are
// reported as configuration errors, everything else as a failed send.
func (c *Catalog) result(tool string, err error, ok string) *mcp.CallToolResult {
	if err == nil {
		return mcp.NewToolResultText(ok)
	}
	c.logger.Error("Tool call failed",
		c.logger.Field().String("tool", tool),
		c.logger.Field().Error("error", err))
	if isConfigError(err) {
		return mcp.NewToolResultErrorFromErr("configuration error", err)
	}
	return mcp.NewToolResultErrorFromErr("failed", err)
}

func isConfigError(err error) bool {
	for _, target := range []error{
		params.ErrUnknownInstrument,
		params.ErrUnknownSection,
		params.ErrUnknownPage,
		params.ErrUnknownParameter,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func channelOption(name, description string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return mcp.WithNumber(name, append([]mcp.PropertyOption{mcp.Description(description), mcp.Min(1), mcp.Max(16)}, opts...)...)
}
