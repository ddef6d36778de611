package handlers

import "github.com/ngoclaw/agenthub/pkg/openapi"

// BuildSpec 生成 REST 接口的 OpenAPI 3.1 文档
func BuildSpec(version string) *openapi.Spec {
	components := openapi.NewComponents()
	components.AddSchemas(schemas())

	spec := &openapi.Spec{
		OpenAPI: "3.1.0",
		Info: &openapi.Info{
			Title:       "agenthub API",
			Version:     version,
			Description: "Agent management backend: agents, agent logs, LLM model catalog and chat conversations.",
		},
		Components: components,
	}

	id := func(what string) []*openapi.Parameter {
		return []*openapi.Parameter{openapi.PathParam("id", what+" ID")}
	}
	errs := func(codes ...int) map[int]*openapi.Response {
		out := map[int]*openapi.Response{500: openapi.ResponseRef("InternalError")}
		for _, code := range codes {
			switch code {
			case 400:
				out[code] = openapi.ResponseRef("BadRequest")
			case 404:
				out[code] = openapi.ResponseRef("NotFound")
			case 409:
				out[code] = openapi.ResponseRef("Conflict")
			}
		}
		return out
	}
	with := func(responses map[int]*openapi.Response, code int, r *openapi.Response) map[int]*openapi.Response {
		responses[code] = r
		return responses
	}

	// Agents
	spec.AddOperation("/agents", "POST", &openapi.Operation{
		Summary:     "Register agent",
		Tags:        []string{"Agents"},
		RequestBody: openapi.RequestBodyJSON("AgentInput", true),
		Responses:   with(errs(400, 404, 409), 201, openapi.ResponseJSON("Registered agent", "Agent")),
	})
	spec.AddOperation("/agents", "GET", &openapi.Operation{
		Summary:    "List agents",
		Tags:       []string{"Agents"},
		Parameters: openapi.PageParams("10"),
		Responses:  with(errs(), 200, openapi.ResponseJSON("Page of agents", "AgentList")),
	})
	spec.AddOperation("/agents/{id}", "GET", &openapi.Operation{
		Summary:    "Get agent",
		Tags:       []string{"Agents"},
		Parameters: id("Agent"),
		Responses:  with(errs(404), 200, openapi.ResponseJSON("Agent", "Agent")),
	})
	spec.AddOperation("/agents/{id}", "PUT", &openapi.Operation{
		Summary:     "Update agent",
		Description: "Partial update of name, description, status and model_id (null clears the model).",
		Tags:        []string{"Agents"},
		Parameters:  id("Agent"),
		RequestBody: openapi.RequestBodyJSON("AgentInput", true),
		Responses:   with(errs(400, 404, 409), 200, openapi.ResponseJSON("Updated agent", "Agent")),
	})
	spec.AddOperation("/agents/{id}", "DELETE", &openapi.Operation{
		Summary:     "Delete agent",
		Description: "Deletes the agent together with its logs, conversations and messages.",
		Tags:        []string{"Agents"},
		Parameters:  id("Agent"),
		Responses:   with(errs(404), 200, openapi.ResponseJSON("Deleted", "Message")),
	})
	for _, action := range []string{"start", "pause", "stop"} {
		spec.AddOperation("/agents/{id}/"+action, "POST", &openapi.Operation{
			Summary:    "Agent " + action,
			Tags:       []string{"Agents"},
			Parameters: id("Agent"),
			Responses:  with(errs(404), 200, openapi.ResponseJSON("Agent", "Agent")),
		})
	}
	spec.AddOperation("/agents/{id}/chat", "POST", &openapi.Operation{
		Summary:     "Chat with agent",
		Description: "Forwards the message with recent history to the agent's model and stores the reply.",
		Tags:        []string{"Chat"},
		Parameters:  id("Agent"),
		RequestBody: openapi.RequestBodyJSON("ChatRequest", true),
		Responses:   with(errs(400, 404), 200, openapi.ResponseJSON("Reply", "ChatResponse")),
	})

	// Logs
	spec.AddOperation("/agents/{id}/logs", "GET", &openapi.Operation{
		Summary:    "List agent logs",
		Tags:       []string{"Logs"},
		Parameters: append(id("Agent"), openapi.PageParams("20")...),
		Responses:  with(errs(404), 200, openapi.ResponseJSON("Page of logs", "LogList")),
	})
	spec.AddOperation("/logs", "GET", &openapi.Operation{
		Summary:    "List all logs",
		Tags:       []string{"Logs"},
		Parameters: openapi.PageParams("20"),
		Responses:  with(errs(), 200, openapi.ResponseJSON("Page of logs", "LogList")),
	})

	// Models
	spec.AddOperation("/models", "POST", &openapi.Operation{
		Summary:     "Create model",
		Tags:        []string{"Models"},
		RequestBody: openapi.RequestBodyJSON("ModelInput", true),
		Responses:   with(errs(400, 409), 201, openapi.ResponseJSON("Created model", "Model")),
	})
	spec.AddOperation("/models", "GET", &openapi.Operation{
		Summary:    "List models",
		Tags:       []string{"Models"},
		Parameters: openapi.PageParams("10"),
		Responses:  with(errs(), 200, openapi.ResponseJSON("Page of models", "ModelList")),
	})
	spec.AddOperation("/models/{id}", "GET", &openapi.Operation{
		Summary:    "Get model",
		Tags:       []string{"Models"},
		Parameters: id("Model"),
		Responses:  with(errs(404), 200, openapi.ResponseJSON("Model", "Model")),
	})
	spec.AddOperation("/models/{id}", "PUT", &openapi.Operation{
		Summary:     "Update model",
		Tags:        []string{"Models"},
		Parameters:  id("Model"),
		RequestBody: openapi.RequestBodyJSON("ModelInput", true),
		Responses:   with(errs(400, 404, 409), 200, openapi.ResponseJSON("Updated model", "Model")),
	})
	spec.AddOperation("/models/{id}", "DELETE", &openapi.Operation{
		Summary:     "Delete model",
		Description: "Refused with 400 while any agent references the model.",
		Tags:        []string{"Models"},
		Parameters:  id("Model"),
		Responses:   with(errs(400, 404), 200, openapi.ResponseJSON("Deleted", "Message")),
	})

	// Conversations
	spec.AddOperation("/conversations", "GET", &openapi.Operation{
		Summary: "List conversations",
		Tags:    []string{"Conversations"},
		Parameters: append([]*openapi.Parameter{
			openapi.QueryParam("agent_id", "integer", "Filter by agent", false),
			openapi.QueryParam("user_id", "string", "Filter by user", false),
		}, openapi.PageParams("20")...),
		Responses: with(errs(400), 200, openapi.ResponseJSON("Page of conversations", "ConversationList")),
	})
	spec.AddOperation("/conversations/{id}", "GET", &openapi.Operation{
		Summary:    "Get conversation",
		Tags:       []string{"Conversations"},
		Parameters: id("Conversation"),
		Responses:  with(errs(404), 200, openapi.ResponseJSON("Conversation", "Conversation")),
	})
	spec.AddOperation("/conversations/{id}", "PUT", &openapi.Operation{
		Summary:     "Rename conversation",
		Tags:        []string{"Conversations"},
		Parameters:  id("Conversation"),
		RequestBody: openapi.RequestBodyJSON("ConversationInput", true),
		Responses:   with(errs(400, 404), 200, openapi.ResponseJSON("Conversation", "Conversation")),
	})
	spec.AddOperation("/conversations/{id}", "DELETE", &openapi.Operation{
		Summary:    "Delete conversation",
		Tags:       []string{"Conversations"},
		Parameters: id("Conversation"),
		Responses:  with(errs(404), 200, openapi.ResponseJSON("Deleted", "Message")),
	})
	spec.AddOperation("/conversations/{id}/messages", "GET", &openapi.Operation{
		Summary:    "List messages",
		Tags:       []string{"Conversations"},
		Parameters: append(id("Conversation"), openapi.PageParams("50")...),
		Responses:  with(errs(404), 200, openapi.ResponseJSON("Page of messages, oldest first", "MessageList")),
	})

	spec.AddOperation("/health", "GET", &openapi.Operation{
		Summary:   "Health check",
		Tags:      []string{"System"},
		Responses: map[int]*openapi.Response{200: {Description: "Service and database are reachable"}},
	})
	spec.AddOperation("/metrics", "GET", &openapi.Operation{
		Summary:   "Prometheus metrics",
		Tags:      []string{"System"},
		Responses: map[int]*openapi.Response{200: {Description: "Text exposition format"}},
	})

	return spec
}

func schemas() map[string]*openapi.Schema {
	str := func(desc string) *openapi.Schema { return &openapi.Schema{Type: "string", Description: desc} }
	integer := func(desc string) *openapi.Schema { return &openapi.Schema{Type: "integer", Description: desc} }
	number := func(desc string) *openapi.Schema { return &openapi.Schema{Type: "number", Description: desc} }
	timestamp := &openapi.Schema{Type: "string", Format: "date-time", ReadOnly: true}
	readOnlyID := &openapi.Schema{Type: "integer", ReadOnly: true}
	agentStatus := &openapi.Schema{Type: "string", Enum: []string{"inactive", "running", "paused", "stopped"}}

	return map[string]*openapi.Schema{
		"Pagination": openapi.PaginationSchema(),
		"Message": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"message": str("")},
		},
		"Agent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          readOnlyID,
				"name":        str("Unique agent name"),
				"description": str(""),
				"status":      agentStatus,
				"model_id":    {Type: "integer", Nullable: true},
				"created_at":  timestamp,
				"updated_at":  timestamp,
			},
		},
		"AgentInput": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":        str("Required on create"),
				"description": str(""),
				"status":      agentStatus,
				"model_id":    {Type: "integer", Nullable: true},
			},
		},
		"AgentList": openapi.ListSchema("agents", "Agent"),
		"AgentLog": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         readOnlyID,
				"agent_id":   integer(""),
				"agent_name": str(""),
				"level":      {Type: "string", Enum: []string{"info", "warning", "error", "debug"}},
				"message":    str(""),
				"timestamp":  timestamp,
			},
		},
		"LogList": openapi.ListSchema("logs", "AgentLog"),
		"Model": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          readOnlyID,
				"name":        str("Unique model name"),
				"provider":    {Type: "string", Enum: []string{"ollama", "openai"}},
				"base_url":    str("OpenAI-compatible endpoint"),
				"has_api_key": {Type: "boolean", ReadOnly: true},
				"model_name":  str("Upstream model identifier"),
				"max_tokens":  integer(""),
				"temperature": number(""),
				"top_p":       number(""),
				"created_at":  timestamp,
				"updated_at":  timestamp,
			},
		},
		"ModelInput": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":        str("Required on create"),
				"provider":    {Type: "string", Enum: []string{"ollama", "openai"}},
				"base_url":    str("Required on create"),
				"api_key":     str("Write only"),
				"model_name":  str("Required on create"),
				"max_tokens":  integer("Default 2048"),
				"temperature": number("Default 0.7"),
				"top_p":       number("Default 1.0"),
			},
		},
		"ModelList": openapi.ListSchema("models", "Model"),
		"Conversation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         readOnlyID,
				"agent_id":   integer(""),
				"user_id":    str(""),
				"title":      str(""),
				"created_at": timestamp,
				"updated_at": timestamp,
			},
		},
		"ConversationInput": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"title": str("")},
			Required:   []string{"title"},
		},
		"ConversationList": openapi.ListSchema("conversations", "Conversation"),
		"ChatMessage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              readOnlyID,
				"conversation_id": integer(""),
				"role":            {Type: "string", Enum: []string{"user", "assistant", "system"}},
				"content":         str(""),
				"timestamp":       timestamp,
			},
		},
		"MessageList": openapi.ListSchema("messages", "ChatMessage"),
		"ChatRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"user_id":         str(""),
				"message":         str(""),
				"conversation_id": {Type: "integer", Description: "Omit to start a new conversation"},
			},
			Required: []string{"user_id", "message"},
		},
		"ChatResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"conversation_id": integer(""),
				"reply":           str(""),
				"timestamp":       {Type: "string", Format: "date-time"},
			},
		},
	}
}
