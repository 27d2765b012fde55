// Package rag implements the ingestion and question-answering pipeline.
//
// The Service type orchestrates both paths. Ingestion fetches conversation
// rows for a source, chunks them into token-bounded passages, embeds each
// passage on a bounded worker pool, and upserts the result into the
// tenant's vector index. Querying expands the question, embeds it,
// retrieves candidate passages, reranks them with the chat model, and
// synthesizes a grounded answer.
//
// Every fatal failure is wrapped in a PipelineError identifying the
// tenant, operation, and pipeline stage. Rerank failures for individual
// documents are absorbed as a zero score and never fail a query.
package rag
