package internal

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DocumentIndexer converts a comparison context into tagged documents
// and feeds them through the embedder into the vector index.
type DocumentIndexer struct {
	embedder Embedder
	index    VectorIndex
	log      *zap.Logger
}

func NewDocumentIndexer(embedder Embedder, index VectorIndex, log *zap.Logger) *DocumentIndexer {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentIndexer{embedder: embedder, index: index, log: log}
}

// Rebuild resets the index and repopulates it from scratch. The returned
// slice holds only the documents that were actually indexed, so its
// positions stay parallel to the index. A document that fails to embed
// or to insert is logged and skipped; it never aborts the rebuild.
func (ix *DocumentIndexer) Rebuild(ctx context.Context, cc *ComparisonContext) []Document {
	ix.index.Reset()

	candidates := BuildDocuments(cc)
	indexed := make([]Document, 0, len(candidates))

	if ix.embedder == nil {
		ix.log.Warn("no embedder configured, semantic retrieval disabled",
			zap.Int("documents", len(candidates)))
		return indexed
	}

	for _, doc := range candidates {
		vec, err := ix.embedder.Embed(ctx, doc.Text)
		if err != nil {
			ix.log.Warn("skipping document: embed failed",
				zap.String("kind", string(doc.Kind)),
				zap.String("company", doc.Company),
				zap.Error(err))
			continue
		}
		if err := ix.index.Add(vec); err != nil {
			ix.log.Warn("skipping document: index insert failed",
				zap.String("kind", string(doc.Kind)),
				zap.String("company", doc.Company),
				zap.Error(err))
			continue
		}
		indexed = append(indexed, doc)
	}

	ix.log.Debug("context indexed",
		zap.Int("documents", len(indexed)),
		zap.Int("skipped", len(candidates)-len(indexed)))

	return indexed
}

// BuildDocuments derives the retrieval documents for a context: one for
// the target company, and per comparable an overview document plus, when
// the data is present, a financial-metrics and a business-profile one.
func BuildDocuments(cc *ComparisonContext) []Document {
	if cc == nil {
		return nil
	}

	var docs []Document

	if cc.TargetCompany != (TargetCompany{}) {
		docs = append(docs, Document{
			Text:    fmt.Sprintf("Target company: %s - %s", orUnknown(cc.TargetCompany.Name), cc.TargetCompany.Description),
			Kind:    DocTargetCompany,
			Company: cc.TargetCompany.Name,
		})
	}

	for _, company := range cc.ComparableCompanies {
		docs = append(docs, Document{
			Text:    fmt.Sprintf("Company: %s (%s) - %s", orUnknown(company.Name), orNA(company.Ticker), company.Rationale),
			Kind:    DocComparableCompany,
			Company: company.Name,
		})

		if len(company.FinancialMetrics) > 0 {
			docs = append(docs, Document{
				Text:    financialText(company),
				Kind:    DocFinancialMetrics,
				Company: company.Name,
			})
		}

		if hasBusinessProfile(company) {
			docs = append(docs, Document{
				Text:    businessProfileText(company),
				Kind:    DocBusinessProfile,
				Company: company.Name,
			})
		}
	}

	return docs
}

func financialText(company CompanyRecord) string {
	m := company.FinancialMetrics
	return fmt.Sprintf("Financial metrics for %s: Market cap: %s, P/E ratio: %s, ROE: %s, Net margin: %s",
		orUnknown(company.Name),
		metricString(m, "market_cap"),
		metricString(m, "pe_ratio"),
		metricString(m, "roe"),
		metricString(m, "net_margin"))
}

func hasBusinessProfile(company CompanyRecord) bool {
	return company.Industry != "" || company.BusinessModel != "" ||
		company.CompanySize != "" || company.GeographicPresence != ""
}

func businessProfileText(company CompanyRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Business profile for %s: ", orUnknown(company.Name))
	if company.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s, ", company.Industry)
	}
	if company.BusinessModel != "" {
		fmt.Fprintf(&sb, "Business model: %s, ", company.BusinessModel)
	}
	if company.CompanySize != "" {
		fmt.Fprintf(&sb, "Size: %s, ", company.CompanySize)
	}
	if company.GeographicPresence != "" {
		fmt.Fprintf(&sb, "Geography: %s", company.GeographicPresence)
	}
	return strings.TrimSuffix(sb.String(), ", ")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
