package tools

import (
	"context"
	"fmt"

	"github.com/leandrodaf/synthmidi/sdk/controller"
	"github.com/leandrodaf/synthmidi/sdk/params"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (c *Catalog) sub37Tools() ([]server.ServerTool, error) {
	inst, err := c.registry.Instrument(params.Sub37)
	if err != nil {
		return nil, err
	}
	channel := inst.DefaultChannel
	if channel == 0 {
		channel = controller.Sub37DefaultChannel
	}

	var tools []server.ServerTool
	for _, secName := range controller.Sub37Sections {
		sec, err := inst.Section(secName)
		if err != nil {
			return nil, err
		}
		ctrl := controller.New(c.transport, sec, channel, c.logger)
		for _, d := range sec.Parameters() {
			tools = append(tools, c.sub37ParameterTool(ctrl, d))
		}
	}
	return tools, nil
}

func sub37ToolName(d params.Descriptor) string {
	if d.Tool != "" {
		return d.Tool
	}
	return "set_" + d.Name
}

func (c *Catalog) sub37ParameterTool(ctrl *controller.ParameterController, d params.Descriptor) server.ServerTool {
	name := sub37ToolName(d)
	opts := []mcp.ToolOption{
		mcp.WithDescription(describe(d)),
		channelOption("channel", fmt.Sprintf("MIDI channel (1-16, default %d)", ctrl.Channel()),
			mcp.DefaultNumber(float64(ctrl.Channel()))),
	}
	switch {
	case d.Fixed != nil:
		// the value is part of the message; nothing to ask for
	case len(d.Options) > 0:
		opts = append(opts,
			mcp.WithNumber("value", mcp.Description(valueHelp(d)), mcp.Min(d.MIDIRange.Min), mcp.Max(d.MIDIRange.Max)),
			mcp.WithString("option", mcp.Description("Named value; used instead of value"), mcp.Enum(d.OptionNames()...)),
		)
	default:
		opts = append(opts,
			mcp.WithNumber("value", mcp.Required(), mcp.Description(valueHelp(d)), mcp.Min(d.MIDIRange.Min), mcp.Max(d.MIDIRange.Max)))
	}
	tool := mcp.NewTool(name, opts...)

	handler := func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		channel := req.GetInt("channel", ctrl.Channel())

		value, err := sub37Value(req, d)
		if err != nil {
			return c.result(name, err, ""), nil
		}
		err = ctrl.WithChannel(channel).Apply(d, value)
		return c.result(name, err, fmt.Sprintf("Set %s to %d on channel %d", d.Name, value, channel)), nil
	}
	return server.ServerTool{Tool: tool, Handler: handler}
}

// sub37Value picks the MIDI value from the arguments: the fixed value, a named
// option, or the raw value, in that order.
func sub37Value(req mcp.CallToolRequest, d params.Descriptor) (int, error) {
	if d.Fixed != nil {
		return *d.Fixed, nil
	}
	if option := req.GetString("option", ""); option != "" && len(d.Options) > 0 {
		return d.OptionValue(option)
	}
	return req.RequireInt("value")
}
