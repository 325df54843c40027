// Package agent implements the conversational agent loop that turns a chat
// message into tool executions and a natural-language reply.
//
// The loop is stateless between requests: the caller supplies the full
// conversation history on every call, and the loop holds nothing back. A
// reply takes at most two model calls. The first offers the tool catalogue;
// if the model requests tool calls they are executed in order and a second
// call, carrying the results, produces the final text. A model response with
// no tool calls short-circuits to a single call.
package agent
