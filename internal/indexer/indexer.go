// Package indexer turns PDF documents into vector-store points: text
// extraction, LLM metadata tagging, chunking, embedding, upsert. It also
// writes the metadata catalog the retrieval tool filters against.
package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"agri-curator/internal/embedding"
	"agri-curator/internal/llm"
)

const embedBatchSize = 32

type Indexer struct {
	qdrant     *qdrant.Client
	embedder   embedding.Engine
	tagger     llm.Client
	collection string
	logger     *zap.Logger
}

func New(client *qdrant.Client, embedder embedding.Engine, tagger llm.Client, collection string, logger *zap.Logger) *Indexer {
	return &Indexer{
		qdrant:     client,
		embedder:   embedder,
		tagger:     tagger,
		collection: collection,
		logger:     logger,
	}
}

// EnsureCollection creates the collection and its payload indexes if they
// do not exist yet. Safe to call on every run.
func (ix *Indexer) EnsureCollection(ctx context.Context) error {
	exists, err := ix.qdrant.CollectionExists(ctx, ix.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		err := ix.qdrant.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: ix.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(ix.embedder.Dimensions()),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
	}

	indexes := map[string]qdrant.FieldType{
		"year":          qdrant.FieldType_FieldTypeInteger,
		"document_type": qdrant.FieldType_FieldTypeKeyword,
		"topics":        qdrant.FieldType_FieldTypeKeyword,
	}
	for field, ftype := range indexes {
		_, err := ix.qdrant.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: ix.collection,
			FieldName:      field,
			FieldType:      &ftype,
		})
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("create payload index %s: %w", field, err)
		}
	}
	return nil
}

// IndexDirectory indexes every PDF under dir and writes the metadata
// catalog to catalogPath. Per-document failures are logged and skipped.
func (ix *Indexer) IndexDirectory(ctx context.Context, dir, catalogPath string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read documents dir: %w", err)
	}

	catalog := newCatalog()
	indexed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		meta, err := ix.indexDocument(ctx, path, entry.Name())
		if err != nil {
			ix.logger.Warn("document skipped", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		catalog.add(meta)
		indexed++
		ix.logger.Info("document indexed",
			zap.String("file", entry.Name()),
			zap.String("document_type", meta.DocumentType),
			zap.Int("year", meta.Year))
	}

	if err := catalog.write(catalogPath); err != nil {
		return err
	}
	ix.logger.Info("indexing complete", zap.Int("documents", indexed))
	return nil
}

func (ix *Indexer) indexDocument(ctx context.Context, path, filename string) (DocumentMetadata, error) {
	text, err := extractPDFText(path)
	if err != nil {
		return DocumentMetadata{}, err
	}
	if strings.TrimSpace(text) == "" {
		return DocumentMetadata{}, fmt.Errorf("no extractable text in %s", filename)
	}

	meta := tagDocument(ctx, ix.tagger, filename, text)
	chunks := chunkText(text)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vectors, err := ix.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return DocumentMetadata{}, fmt.Errorf("embed chunks: %w", err)
		}

		points := make([]*qdrant.PointStruct, 0, len(batch))
		for i, chunk := range batch {
			payload := map[string]any{
				"text":          chunk,
				"source":        filename,
				"chunk_index":   start + i,
				"document_type": meta.DocumentType,
				"year":          meta.Year,
				"topics":        anySlice(meta.Topics),
				"key_entities":  anySlice(meta.KeyEntities),
			}
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewID(uuid.NewString()),
				Vectors: qdrant.NewVectors(vectors[i]...),
				Payload: qdrant.NewValueMap(payload),
			})
		}

		_, err = ix.qdrant.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: ix.collection,
			Points:         points,
		})
		if err != nil {
			return DocumentMetadata{}, fmt.Errorf("upsert points: %w", err)
		}
	}
	return meta, nil
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// catalog accumulates the distinct metadata values seen across a run.
type catalog struct {
	values map[string]map[string]any
}

func newCatalog() *catalog {
	return &catalog{values: map[string]map[string]any{
		"document_type": {},
		"key_entities":  {},
		"topics":        {},
		"year":          {},
	}}
}

func (c *catalog) add(meta DocumentMetadata) {
	if meta.DocumentType != "" {
		c.values["document_type"][meta.DocumentType] = meta.DocumentType
	}
	for _, e := range meta.KeyEntities {
		c.values["key_entities"][e] = e
	}
	for _, t := range meta.Topics {
		c.values["topics"][t] = t
	}
	if meta.Year != 0 {
		c.values["year"][fmt.Sprint(meta.Year)] = meta.Year
	}
}

func (c *catalog) write(path string) error {
	out := map[string][]any{}
	for field, set := range c.values {
		keys := make([]string, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vals := make([]any, 0, len(keys))
		for _, k := range keys {
			vals = append(vals, set[k])
		}
		out[field] = vals
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
