package fiscal_test

import (
	"encoding/json"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"3tcapital/atolonline/pkg/fiscal"
)

func TestSellDocumentSerialization(t *testing.T) {
	t.Parallel()

	doc := newSellDocument(t)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.JSONEq(t, string(readTestdata(t, "sell-request.json")), string(data))

	var decoded struct {
		ExternalID string `json:"external_id"`
		Timestamp  string `json:"timestamp"`
		Receipt    struct {
			Total json.Number `json:"total"`
		} `json:"receipt"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "17052917561851307", decoded.ExternalID)
	assert.Equal(t, "29.05.2017 17:56:18", decoded.Timestamp)
	assert.Equal(t, json.Number("7612"), decoded.Receipt.Total)
}

func TestSerializationIsDeterministic(t *testing.T) {
	t.Parallel()

	doc := newSellDocument(t)

	first, err := json.Marshal(doc)
	require.NoError(t, err)
	second, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCorrectionDocuments(t *testing.T) {
	t.Parallel()

	for _, doc := range []*fiscal.Document{fiscal.NewSellCorrection(), fiscal.NewBuyCorrection()} {
		doc := newCorrectionDocument(t, doc)

		data, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, string(readTestdata(t, "correction-request.json")), string(data), doc.Operation())
	}
}

func TestOperationTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		doc  *fiscal.Document
		want string
	}{
		{fiscal.NewSell(), "sell"},
		{fiscal.NewSellRefund(), "sell_refund"},
		{fiscal.NewBuy(), "buy"},
		{fiscal.NewBuyRefund(), "buy_refund"},
		{fiscal.NewSellCorrection(), "sell_correction"},
		{fiscal.NewBuyCorrection(), "buy_correction"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.doc.Operation())
		assert.Equal(t, tt.want, tt.doc.Kind().String())

		kind, err := fiscal.ParseDocumentKind(tt.want)
		require.NoError(t, err)
		assert.Equal(t, tt.doc.Kind(), kind)
	}

	refund := fiscal.NewSellRefund()
	require.NoError(t, refund.SetReceipt(newReceipt(t)))
	assert.Equal(t, "sell_refund", refund.Operation())

	correction := newCorrectionDocument(t, fiscal.NewBuyCorrection())
	assert.Equal(t, "buy_correction", correction.Operation())

	_, err := fiscal.ParseDocumentKind("refund")
	require.ErrorIs(t, err, fiscal.ErrInvalidInput)
}

func TestDocumentPayloadMatchesKind(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, fiscal.NewSellCorrection().SetReceipt(&fiscal.Receipt{}), fiscal.ErrInvalidInput)
	require.ErrorIs(t, fiscal.NewBuy().SetCorrection(&fiscal.Correction{}), fiscal.ErrInvalidInput)

	_, err := fiscal.NewDocument(fiscal.DocumentKind(42))
	require.ErrorIs(t, err, fiscal.ErrInvalidInput)

	doc, err := fiscal.NewDocument(fiscal.KindBuyRefund)
	require.NoError(t, err)
	assert.Equal(t, "buy_refund", doc.Operation())
}

func TestDocumentMissingFields(t *testing.T) {
	t.Parallel()

	_, err := fiscal.NewSellCorrection().Serialize()

	var missing *fiscal.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "sell_correction", missing.Entity)
	assert.Equal(t, []string{"external_id", "timestamp", "correction"}, missing.Fields)

	doc := newSellDocument(t)
	doc.Receipt().SetClient(nil)

	_, err = json.Marshal(doc)
	require.ErrorIs(t, err, fiscal.ErrMissingRequiredField)
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"receipt.client"}, missing.Fields)
}

func TestNewExternalID(t *testing.T) {
	t.Parallel()

	a, err := fiscal.NewExternalID()
	require.NoError(t, err)
	b, err := fiscal.NewExternalID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	_, err = uuid.FromString(a)
	require.NoError(t, err)
}
