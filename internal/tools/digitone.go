package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/leandrodaf/synthmidi/sdk/controller"
	"github.com/leandrodaf/synthmidi/sdk/params"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const trackHelp = "Digitone track (1-16); the track number is its MIDI channel"

func (c *Catalog) digitoneTools() ([]server.ServerTool, error) {
	inst, err := c.registry.Instrument(params.Digitone)
	if err != nil {
		return nil, err
	}

	var tools []server.ServerTool
	for _, secName := range controller.DigitoneSections {
		sec, err := inst.Section(secName)
		if err != nil {
			return nil, err
		}
		ctrl := controller.New(c.transport, sec, 1, c.logger)
		for _, d := range sec.Parameters() {
			tools = append(tools, c.digitoneParameterTool(ctrl, sec, d))
		}
	}
	return append(tools, c.digitoneGenericTools()...), nil
}

func digitoneToolName(sec *params.Section, d params.Descriptor) string {
	return "set_" + sec.ToolPrefix + "_" + d.Key()
}

func describe(d params.Descriptor) string {
	var b strings.Builder
	if d.Description != "" {
		b.WriteString(d.Description)
	} else {
		fmt.Fprintf(&b, "Set %s %s", d.Section, d.Name)
		if d.Page != params.DirectPage {
			fmt.Fprintf(&b, " (%s)", strings.ReplaceAll(d.Page, "_", " "))
		}
		b.WriteString(".")
	}
	if cc, ok := d.Addressing.CC(); ok {
		fmt.Fprintf(&b, " CC %d", cc.MSB)
		if cc.HighRes() {
			fmt.Fprintf(&b, "/%d", cc.LSB)
		}
		b.WriteString(".")
	}
	if nrpn, ok := d.Addressing.NRPN(); ok {
		fmt.Fprintf(&b, " NRPN %d/%d.", nrpn.MSB, nrpn.LSB)
	}
	if !d.ValueRange.IsZero() && d.ValueRange != d.MIDIRange {
		fmt.Fprintf(&b, " Display range %s.", d.ValueRange)
	}
	if len(d.Options) > 0 {
		parts := make([]string, len(d.Options))
		for i, o := range d.Options {
			parts[i] = fmt.Sprintf("%d=%s", o.Value, o.Name)
		}
		fmt.Fprintf(&b, " Options: %s.", strings.Join(parts, ", "))
	}
	if def := d.Default.String(); def != "" {
		fmt.Fprintf(&b, " Default %s.", def)
	}
	return b.String()
}

func valueHelp(d params.Descriptor) string {
	if d.Help != "" {
		return d.Help
	}
	return fmt.Sprintf("MIDI value (%s)", d.MIDIRange)
}

func (c *Catalog) digitoneParameterTool(ctrl *controller.ParameterController, sec *params.Section, d params.Descriptor) server.ServerTool {
	name := digitoneToolName(sec, d)
	tool := mcp.NewTool(name,
		mcp.WithDescription(describe(d)),
		mcp.WithNumber("value", mcp.Required(), mcp.Description(valueHelp(d)),
			mcp.Min(d.MIDIRange.Min), mcp.Max(d.MIDIRange.Max)),
		channelOption("track", trackHelp, mcp.Required()),
	)

	handler := func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		value, err := req.RequireInt("value")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		track, err := req.RequireInt("track")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		bound := ctrl.WithChannel(track)
		if d.Page == params.DirectPage {
			err = bound.SetDirectParameter(d.Name, value)
		} else {
			err = bound.SetParameter(d.Page, d.Name, value)
		}
		return c.result(name, err, fmt.Sprintf("Set %s %s to %d on track %d", sec.Name, d.Name, value, track)), nil
	}
	return server.ServerTool{Tool: tool, Handler: handler}
}

// digitoneTarget reads the section, page and parameter arguments shared by the generic tools.
func (c *Catalog) digitoneTarget(req mcp.CallToolRequest) (*controller.ParameterController, string, string, error) {
	section, err := req.RequireString("section")
	if err != nil {
		return nil, "", "", err
	}
	name, err := req.RequireString("parameter")
	if err != nil {
		return nil, "", "", err
	}
	track, err := req.RequireInt("track")
	if err != nil {
		return nil, "", "", err
	}
	ctrl, err := controller.ForSection(c.transport, c.registry, params.Digitone, section, track, c.logger)
	if err != nil {
		return nil, "", "", err
	}
	return ctrl, req.GetString("page", params.DirectPage), name, nil
}

func (c *Catalog) digitoneGenericTools() []server.ServerTool {
	target := []mcp.ToolOption{
		mcp.WithString("section", mcp.Required(), mcp.Description("Digitone section"), mcp.Enum(controller.DigitoneSections...)),
		mcp.WithString("page", mcp.Description("Page of a machine section (page_1..page_4); empty for flat sections")),
		mcp.WithString("parameter", mcp.Required(), mcp.Description("Parameter name (e.g. ATK) or alias (e.g. attack)")),
		channelOption("track", trackHelp, mcp.Required()),
	}
	with := func(opts ...mcp.ToolOption) []mcp.ToolOption {
		return append(append([]mcp.ToolOption(nil), target...), opts...)
	}

	nrpn := mcp.NewTool("set_digitone_parameter_nrpn", with(
		mcp.WithDescription("Set any Digitone parameter, sending NRPN first and falling back to CC."),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Value (0-16383 over NRPN, 0-127 over CC)"), mcp.Min(0), mcp.Max(16383)),
	)...)
	option := mcp.NewTool("set_digitone_parameter_option", with(
		mcp.WithDescription("Set a Digitone parameter to one of its named options (e.g. MODE=ADSR)."),
		mcp.WithString("option", mcp.Required(), mcp.Description("Option name, case insensitive")),
	)...)
	value := mcp.NewTool("set_digitone_parameter_value", with(
		mcp.WithDescription("Set a Digitone parameter using the value shown on the device (e.g. PAN -64..64)."),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Display value")),
	)...)

	return []server.ServerTool{
		{Tool: nrpn, Handler: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctrl, page, name, err := c.digitoneTarget(req)
			if err != nil {
				return c.result(nrpn.Name, err, ""), nil
			}
			v, err := req.RequireInt("value")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			err = ctrl.SetParameterNRPN(page, name, v)
			return c.result(nrpn.Name, err, fmt.Sprintf("Set %s %s to %d on track %d", ctrl.Section().Name, name, v, ctrl.Channel())), nil
		}},
		{Tool: option, Handler: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctrl, page, name, err := c.digitoneTarget(req)
			if err != nil {
				return c.result(option.Name, err, ""), nil
			}
			opt, err := req.RequireString("option")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			err = ctrl.SetOption(page, name, opt)
			return c.result(option.Name, err, fmt.Sprintf("Set %s %s to %s on track %d", ctrl.Section().Name, name, opt, ctrl.Channel())), nil
		}},
		{Tool: value, Handler: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctrl, page, name, err := c.digitoneTarget(req)
			if err != nil {
				return c.result(value.Name, err, ""), nil
			}
			v, err := req.RequireFloat("value")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			err = ctrl.SetScaled(page, name, v)
			return c.result(value.Name, err, fmt.Sprintf("Set %s %s to %v on track %d", ctrl.Section().Name, name, v, ctrl.Channel())), nil
		}},
	}
}
