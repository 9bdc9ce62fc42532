package service

import (
	"errors"

	"dominik-store/internal/catalog"
	"dominik-store/internal/domain"
	"dominik-store/internal/metrics"

	"go.uber.org/zap"
)

// rowDecoder turns stored rows into products, dropping rows that fail to
// decode so one bad record never fails a whole listing
type rowDecoder struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func (d rowDecoder) decodeRows(rows []catalog.Row) []domain.Product {
	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		p, err := d.decode(r)
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	return products
}

func (d rowDecoder) decode(r catalog.Row) (domain.Product, error) {
	p, err := catalog.DecodeRow(r)
	if err == nil {
		return p, nil
	}

	fields := []zap.Field{zap.String("product_id", r.ID.String()), zap.Error(err)}
	var decodeErr *catalog.DecodeError
	if errors.As(err, &decodeErr) {
		fields = append(fields, zap.String("field", decodeErr.Field))
	}
	d.logger.Warn("Skipping product row", fields...)
	d.metrics.RecordDecodeFailure()

	return domain.Product{}, err
}
