package transactions

import (
	"bytes"
	"encoding/json"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/pkg/logger"
)

// readRecords splits a list body into records. The body must be a JSON
// array; elements that fail to decode are logged and skipped.
func readRecords(raw json.RawMessage, log *logger.Logger) ([]finapi.TransactionRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrUnexpectedShape
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, ErrUnexpectedShape
	}

	records := make([]finapi.TransactionRecord, 0, len(elems))
	for i, elem := range elems {
		var rec finapi.TransactionRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			log.Warn("skipping undecodable transaction record", "index", i, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
