// Package services implements the driving ports on top of the driven ports.
//
// The question-answering flow is split across three collaborators:
//
//   - RetrievalService turns a question into a context string
//   - AnswerGenerator turns context and question into an answer, absorbing provider failures
//   - Pipeline composes both with chunking and indexing, and is what front-ends call
package services
