// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2agraph adapts a compiled agent-execution graph to the A2A
// protocol.
//
// The GraphExecutor drives one graph execution per request: it resolves or
// creates the protocol task, streams the graph's accumulated message list in
// value mode, and translates each newly seen message into working status
// updates carrying agent text, tool-call projections, or tool results. When
// the stream quiesces, the graph's persisted state must carry a structured
// response under the "structured_response" key; that response determines the
// final status and, for completed runs, the artifact published strictly
// before it.
//
// The graph engine itself is external: anything implementing graph.Graph can
// be driven. Typical wiring:
//
//	executor := a2agraph.NewGraphExecutor(myGraph)
//	queue := event.NewChannelQueue(64)
//	reqCtx := execution.NewRequestContext("", "", a2a.NewUserTextMessage("plan my trip", "", ""))
//
//	go func() {
//		defer queue.Close()
//		if err := executor.Execute(ctx, reqCtx, queue); err != nil {
//			log.Printf("execution failed: %v", err)
//		}
//	}()
//
//	for {
//		ev, err := queue.Get(ctx)
//		if err != nil {
//			break
//		}
//		// deliver ev to the caller
//	}
//
// Cancellation is not supported: Cancel always returns
// ErrCancelNotSupported, and a started execution runs to completion or to a
// fatal error. Callers bound execution through the ctx passed to Execute.
package a2agraph
