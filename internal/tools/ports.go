package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (c *Catalog) portTools() ([]server.ServerTool, error) {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("list_midi_ports",
				mcp.WithDescription("List the MIDI ports visible to the server, with their direction."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: c.listPorts,
		},
		{
			Tool: mcp.NewTool("connect_midi_port",
				mcp.WithDescription("Connect to a MIDI port by exact name, or to the first output whose name contains match."),
				mcp.WithString("port", mcp.Description("Exact port name")),
				mcp.WithString("match", mcp.Description("Case-insensitive substring, e.g. digitone or sub 37")),
			),
			Handler: c.connectPort,
		},
		{
			Tool: mcp.NewTool("disconnect_midi_port",
				mcp.WithDescription("Close the connected MIDI port."),
			),
			Handler: c.disconnectPort,
		},
		{
			Tool: mcp.NewTool("midi_status",
				mcp.WithDescription("Report whether a MIDI port is connected and which one."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: c.status,
		},
	}, nil
}

func (c *Catalog) listPorts(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, err := c.transport.ListDevices()
	if err != nil {
		return c.result("list_midi_ports", err, ""), nil
	}
	if len(devices) == 0 {
		return mcp.NewToolResultText("No MIDI ports found"), nil
	}

	var b strings.Builder
	for _, d := range devices {
		dir := "out"
		if d.Direction == contracts.PortInput {
			dir = "in"
		}
		fmt.Fprintf(&b, "%s [%s]", d.Name, dir)
		if d.Manufacturer != "" {
			fmt.Fprintf(&b, " (%s)", d.Manufacturer)
		}
		b.WriteByte('\n')
	}
	return mcp.NewToolResultText(strings.TrimSuffix(b.String(), "\n")), nil
}

func (c *Catalog) connectPort(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	port := req.GetString("port", "")
	match := req.GetString("match", "")

	var err error
	switch {
	case port != "":
		err = c.transport.Connect(port)
	case match != "":
		err = c.transport.AutoConnect(match)
	default:
		return mcp.NewToolResultError("either port or match is required"), nil
	}
	return c.result("connect_midi_port", err, "Connected to "+c.transport.PortName()), nil
}

func (c *Catalog) disconnectPort(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := c.transport.PortName()
	if err := c.transport.Disconnect(); err != nil {
		return c.result("disconnect_midi_port", err, ""), nil
	}
	if name == "" {
		return mcp.NewToolResultText("Not connected"), nil
	}
	return mcp.NewToolResultText("Disconnected from " + name), nil
}

func (c *Catalog) status(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !c.transport.IsConnected() {
		return mcp.NewToolResultText("Not connected"), nil
	}
	return mcp.NewToolResultText("Connected to " + c.transport.PortName()), nil
}
