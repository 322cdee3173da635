package flowcanvas

import (
	"fmt"
	"strconv"
	"strings"
)

// HandleKind discriminates the Handle union.
type HandleKind int

// Handle kinds. Generic covers every handle name that carries no
// connection semantics of its own.
const (
	HandleGeneric HandleKind = iota
	HandleParamSlot
	HandleListSlot
	HandleToolAttachment
	HandleToolInput
	HandleToolDataOut
	HandleMCPAttachment
	HandleMessageIn
)

// Wire names of the fixed handles.
const (
	handleToolAttachmentOut = "tool_attachment_out"
	handleToolInput         = "tool_input_handle"
	handleToolOutputData    = "tool_output_data"
	handleMCPAttachmentOut  = "mcp_server_attachment_out"
	handleInputMessageIn    = "input_message_in"

	paramSlotPrefix = "pattern_agent_input_"
	listSlotPrefix  = "pattern_list_item_input_"
)

// Handle is a parsed port name. Handle names on the wire encode
// connection intent; ParseHandle decodes them once at the classifier
// boundary so the guard table matches on Kind instead of prefixes.
//
// Param is set for ParamSlot and ListSlot; Index only for ListSlot.
type Handle struct {
	Kind  HandleKind
	Param string
	Index int
	raw   string
}

// ParseHandle decodes a wire handle name. Unrecognized names,
// including the empty string, parse as Generic and are never an error.
func ParseHandle(name string) Handle {
	switch name {
	case handleToolAttachmentOut:
		return Handle{Kind: HandleToolAttachment, raw: name}
	case handleToolInput:
		return Handle{Kind: HandleToolInput, raw: name}
	case handleToolOutputData:
		return Handle{Kind: HandleToolDataOut, raw: name}
	case handleMCPAttachmentOut:
		return Handle{Kind: HandleMCPAttachment, raw: name}
	case handleInputMessageIn:
		return Handle{Kind: HandleMessageIn, raw: name}
	}

	if param, ok := strings.CutPrefix(name, paramSlotPrefix); ok && param != "" {
		return Handle{Kind: HandleParamSlot, Param: param, raw: name}
	}

	if rest, ok := strings.CutPrefix(name, listSlotPrefix); ok {
		// The index is the final underscore-separated segment; the
		// parameter name may itself contain underscores.
		if cut := strings.LastIndex(rest, "_"); cut > 0 {
			if idx, err := strconv.Atoi(rest[cut+1:]); err == nil {
				return Handle{Kind: HandleListSlot, Param: rest[:cut], Index: idx, raw: name}
			}
		}
	}

	return Handle{Kind: HandleGeneric, raw: name}
}

// String re-emits the wire name the handle was parsed from, or
// synthesizes it for handles constructed programmatically.
func (h Handle) String() string {
	if h.raw != "" {
		return h.raw
	}
	switch h.Kind {
	case HandleParamSlot:
		return paramSlotPrefix + h.Param
	case HandleListSlot:
		return fmt.Sprintf("%s%s_%d", listSlotPrefix, h.Param, h.Index)
	case HandleToolAttachment:
		return handleToolAttachmentOut
	case HandleToolInput:
		return handleToolInput
	case HandleToolDataOut:
		return handleToolOutputData
	case HandleMCPAttachment:
		return handleMCPAttachmentOut
	case HandleMessageIn:
		return handleInputMessageIn
	}
	return ""
}

// ParamSlot constructs the handle for a single-valued pattern parameter.
func ParamSlot(param string) Handle {
	return Handle{Kind: HandleParamSlot, Param: param}
}

// ListSlot constructs the handle for one slot of a list-valued
// pattern parameter.
func ListSlot(param string, index int) Handle {
	return Handle{Kind: HandleListSlot, Param: param, Index: index}
}
