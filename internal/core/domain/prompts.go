package domain

// AnswerPromptTemplate is the built-in question-answering prompt.
// The first %s receives the retrieved context, the second the question.
const AnswerPromptTemplate = `You are a helpful AI assistant. Use the context below to answer the question.
If the answer is not found in the context, say "I couldn't find relevant information in the document."

Context:
%s

Question:
%s

Answer:`
