/*
Package flowcanvas provides the graph core of a visual agent-flow builder.

# Overview

flowcanvas is a Go library for the in-memory model behind a canvas on
which users assemble directed graphs of typed components: agents,
multi-step patterns, tools, external-protocol servers, text inputs,
and triggers. An external backend later compiles the assembled graph
into an executable orchestration flow; this library owns everything up
to that boundary.

Its substance is in four pieces:
  - The node/edge data model, with per-category configuration variants
  - The connection classifier, which decides what a drawn link means
    and how it must mutate node configuration
  - The node initializer, which derives a node's defaults from a
    component's declared parameter schema
  - The project layer (subpackage project), which snapshots graphs
    across sessions

# Basic Usage

Resolve a component from the catalog, drop it on the graph, and draw
connections:

	g := flowcanvas.NewGraph()

	agent := flowcanvas.NewNode(agentDesc, flowcanvas.Position{X: 50, Y: 50})
	tool := flowcanvas.NewNode(toolDesc, flowcanvas.Position{X: 50, Y: 200})
	g.AddNode(agent)
	g.AddNode(tool)

	edge, err := flowcanvas.Connect(flowcanvas.Connection{
	    Source:       tool.ID,
	    Target:       agent.ID,
	    SourceHandle: flowcanvas.Handle{Kind: flowcanvas.HandleToolAttachment}.String(),
	    TargetHandle: flowcanvas.Handle{Kind: flowcanvas.HandleToolInput}.String(),
	}, g)

The classifier records the tool in the agent's selected_tools with set
semantics; the edge itself is the visual and audit record.

# Handles

Handle names on the wire encode connection intent. ParseHandle decodes
them once into a small algebraic type so classification is a match
over constructors rather than prefix string tests. See Handle.

# Sessions and persistence

Subpackage session wires a graph, a component catalog, and a project
manager into one context object per editing session, with persistence
debounced behind a trailing window and flushed on shutdown. Subpackage
project supplies in-memory and SQLite-backed stores.
*/
package flowcanvas
