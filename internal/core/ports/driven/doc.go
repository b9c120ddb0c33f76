// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Converts chunk and query text into vectors
//   - LLMService: Completes the answer prompt
//   - VectorIndex: Stores chunk embeddings and answers nearest-neighbour queries
//   - DocumentStore: Remembers which document the index currently holds
//   - TextExtractor: Pulls plain text out of uploaded files
//   - ConfigStore / PromptStore: Configuration and prompt templates
//
// # Optional Interfaces
//
//   - ConversationLog: Session history sink. When nil, history is not kept.
//   - TokenCounter: Context size estimation. When nil, a length heuristic is used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
