package fiscal_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"3tcapital/atolonline/pkg/fiscal"
)

func newReceiptItem(t *testing.T, name, price, qty, sum string, tax fiscal.VatType, taxSum string) *fiscal.ReceiptItem {
	t.Helper()

	item, err := fiscal.NewReceiptItem(name)
	require.NoError(t, err)
	require.NoError(t, item.SetPrice(amount(price)))
	require.NoError(t, item.SetQuantity(amount(qty)))
	require.NoError(t, item.SetSum(amount(sum)))
	require.NoError(t, item.SetTax(tax))
	if taxSum != "" {
		require.NoError(t, item.SetTaxSum(amount(taxSum)))
	}
	return item
}

func newSellDocumentV3(t *testing.T) *fiscal.Document {
	t.Helper()

	attributes := &fiscal.ReceiptAttributes{}
	require.NoError(t, attributes.SetEmail("mail@example.com"))
	require.NoError(t, attributes.SetSno(fiscal.TaxSystemOSN))

	r := &fiscal.ReceiptV3{}
	r.SetAttributes(attributes)
	require.NoError(t, r.AddItem(newReceiptItem(t, "Название товара 1", "5000", "1", "5000", fiscal.Vat10, "454.55")))
	require.NoError(t, r.AddItem(newReceiptItem(t, "Название товара 2", "1456.21", "2", "2612.42", fiscal.Vat118, "")))
	require.NoError(t, r.AddPayment(newPayment(t, "7612")))
	require.NoError(t, r.SetTotal(amount("7612")))

	doc := fiscal.NewSell()
	require.NoError(t, doc.SetExternalID("17052917561851307"))
	doc.SetTimestamp(time.Date(2017, time.May, 29, 17, 56, 18, 0, time.Local))
	require.NoError(t, doc.SetReceiptV3(r))

	service := &fiscal.Service{}
	require.NoError(t, service.SetCallbackURL("http://example.com/callback"))
	require.NoError(t, service.SetInn("331122667723"))
	require.NoError(t, service.SetPaymentAddress("example.com"))
	doc.SetService(service)
	return doc
}

func TestSellDocumentV3(t *testing.T) {
	t.Parallel()

	doc := newSellDocumentV3(t)
	assert.Equal(t, fiscal.SchemaV3, doc.Schema())
	assert.Nil(t, doc.Receipt())

	assert.JSONEq(t, `{
		"external_id": "17052917561851307",
		"receipt": {
			"attributes": {"sno": "osn", "email": "mail@example.com"},
			"items": [
				{"name": "Название товара 1", "price": 5000, "quantity": 1, "sum": 5000, "tax": "vat10", "tax_sum": 454.55},
				{"name": "Название товара 2", "price": 1456.21, "quantity": 2, "sum": 2612.42, "tax": "vat118"}
			],
			"payments": [{"type": 1, "sum": 7612}],
			"total": 7612
		},
		"service": {"callback_url": "http://example.com/callback", "inn": "331122667723", "payment_address": "example.com"},
		"timestamp": "29.05.2017 17:56:18"
	}`, marshal(t, doc))
}

func TestSellDocumentV3NeedsServiceAddress(t *testing.T) {
	t.Parallel()

	doc := newSellDocumentV3(t)
	service := &fiscal.Service{}
	require.NoError(t, service.SetCallbackURL("http://example.com/callback"))
	doc.SetService(service)

	_, err := json.Marshal(doc)

	var missing *fiscal.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"service.inn", "service.payment_address"}, missing.Fields)
}

func TestReceiptItemNameLength(t *testing.T) {
	t.Parallel()

	_, err := fiscal.NewReceiptItem(text(64))
	require.NoError(t, err)

	_, err = fiscal.NewReceiptItem(text(65))
	require.ErrorIs(t, err, fiscal.ErrInvalidInput)

	item, err := fiscal.NewReceiptItem("Товар")
	require.NoError(t, err)
	assert.True(t, item.Quantity().Equal(amount("1")))
	require.ErrorIs(t, item.SetTax(fiscal.VatType("vat7")), fiscal.ErrInvalidInput)
}

func TestReceiptAttributes(t *testing.T) {
	t.Parallel()

	a := &fiscal.ReceiptAttributes{}
	_, err := a.Serialize()

	var missing *fiscal.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"email|phone"}, missing.Fields)

	require.ErrorIs(t, a.SetPhone("8 (900) 123"), fiscal.ErrInvalidInput)
	require.ErrorIs(t, a.SetSno(fiscal.TaxSystem("flat")), fiscal.ErrInvalidInput)
	require.NoError(t, a.SetPhone("+79001234567"))
	assert.JSONEq(t, `{"phone":"+79001234567"}`, marshal(t, mustSerialize(t, a)))
}

func TestReceiptV3MissingFields(t *testing.T) {
	t.Parallel()

	r := &fiscal.ReceiptV3{}
	r.SetAttributes(&fiscal.ReceiptAttributes{})
	require.NoError(t, r.AddItem(&fiscal.ReceiptItem{}))

	_, err := r.Serialize()

	var missing *fiscal.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{
		"payments",
		"total",
		"attributes.email|phone",
		"items[0].name",
		"items[0].price",
		"items[0].sum",
		"items[0].tax",
	}, missing.Fields)
}

func TestCorrectionDocumentV3(t *testing.T) {
	t.Parallel()

	attributes := &fiscal.CorrectionAttributes{}
	_, err := attributes.Serialize()
	require.ErrorIs(t, err, fiscal.ErrMissingRequiredField)

	require.NoError(t, attributes.SetTax(fiscal.Vat18))
	require.NoError(t, attributes.SetSno(fiscal.TaxSystemOSN))

	c := &fiscal.CorrectionV3{}
	c.SetAttributes(attributes)
	require.NoError(t, c.AddPayment(newPayment(t, "2000")))

	doc := fiscal.NewSellCorrection()
	require.NoError(t, doc.SetExternalID("17052917561851307"))
	doc.SetTimestamp(time.Date(2017, time.February, 1, 13, 45, 0, 0, time.Local))
	require.NoError(t, doc.SetCorrectionV3(c))

	assert.Equal(t, fiscal.SchemaV3, doc.Schema())
	assert.JSONEq(t, `{
		"external_id": "17052917561851307",
		"correction": {
			"attributes": {"tax": "vat18", "sno": "osn"},
			"payments": [{"type": 1, "sum": 2000}]
		},
		"timestamp": "01.02.2017 13:45:00"
	}`, marshal(t, doc))
}

func TestDocumentSchemaSwitch(t *testing.T) {
	t.Parallel()

	doc := newSellDocumentV3(t)
	require.NoError(t, doc.SetReceipt(newReceipt(t)))
	assert.Equal(t, fiscal.SchemaV4, doc.Schema())
	assert.Nil(t, doc.ReceiptV3())

	require.NoError(t, doc.SetReceiptV3(&fiscal.ReceiptV3{}))
	assert.Equal(t, fiscal.SchemaV3, doc.Schema())
	assert.Nil(t, doc.Receipt())

	require.ErrorIs(t, fiscal.NewSellCorrection().SetReceiptV3(&fiscal.ReceiptV3{}), fiscal.ErrInvalidInput)
	require.ErrorIs(t, fiscal.NewBuy().SetCorrectionV3(&fiscal.CorrectionV3{}), fiscal.ErrInvalidInput)
	assert.Equal(t, "v3", fiscal.SchemaV3.String())
	assert.Equal(t, "v4", fiscal.SchemaV4.String())
}
