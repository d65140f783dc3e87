package fiscal_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"3tcapital/atolonline/pkg/fiscal"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func marshal(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func newVat(t *testing.T, typ fiscal.VatType, sum string) *fiscal.Vat {
	t.Helper()

	v, err := fiscal.NewVat(typ)
	require.NoError(t, err)
	if sum != "" {
		require.NoError(t, v.SetSum(amount(sum)))
	}
	return v
}

func newItem(t *testing.T, name, price, qty, sum string, vat *fiscal.Vat) *fiscal.Item {
	t.Helper()

	item, err := fiscal.NewItem(name)
	require.NoError(t, err)
	require.NoError(t, item.SetPrice(amount(price)))
	require.NoError(t, item.SetQuantity(amount(qty)))
	require.NoError(t, item.SetSum(amount(sum)))
	require.NoError(t, item.SetPaymentMethod(fiscal.PaymentMethodFullPayment))
	require.NoError(t, item.SetPaymentObject(fiscal.PaymentObjectCommodity))
	item.SetVat(vat)
	return item
}

func newPayment(t *testing.T, sum string) *fiscal.Payment {
	t.Helper()

	p, err := fiscal.NewPayment(amount(sum))
	require.NoError(t, err)
	return p
}

func newCompany(t *testing.T) *fiscal.Company {
	t.Helper()

	c := &fiscal.Company{}
	require.NoError(t, c.SetEmail("chek@example.com"))
	require.NoError(t, c.SetSno(fiscal.TaxSystemOSN))
	require.NoError(t, c.SetInn("331122667723"))
	require.NoError(t, c.SetPaymentAddress("example.com"))
	return c
}

func newReceipt(t *testing.T) *fiscal.Receipt {
	t.Helper()

	client := &fiscal.Client{}
	require.NoError(t, client.SetEmail("mail@example.com"))

	r := &fiscal.Receipt{}
	r.SetClient(client)
	r.SetCompany(newCompany(t))
	require.NoError(t, r.AddItem(newItem(t, "Название товара 1", "5000", "1", "5000", newVat(t, fiscal.Vat10, "454.55"))))
	require.NoError(t, r.AddItem(newItem(t, "Название товара 2", "1456.21", "2", "2612.42", newVat(t, fiscal.Vat18, ""))))
	require.NoError(t, r.AddPayment(newPayment(t, "7612")))
	require.NoError(t, r.SetTotal(amount("7612")))
	return r
}

func newSellDocument(t *testing.T) *fiscal.Document {
	t.Helper()

	doc := fiscal.NewSell()
	require.NoError(t, doc.SetExternalID("17052917561851307"))
	doc.SetTimestamp(time.Date(2017, time.May, 29, 17, 56, 18, 0, time.Local))
	require.NoError(t, doc.SetReceipt(newReceipt(t)))

	service := &fiscal.Service{}
	require.NoError(t, service.SetCallbackURL("http://example.com/callback"))
	doc.SetService(service)
	return doc
}

func newCorrection(t *testing.T) *fiscal.Correction {
	t.Helper()

	company := &fiscal.CorrectionCompany{}
	require.NoError(t, company.SetSno(fiscal.TaxSystemOSN))
	require.NoError(t, company.SetInn("331122667723"))
	require.NoError(t, company.SetPaymentAddress("magazin.ru"))

	info := &fiscal.CorrectionInfo{}
	require.NoError(t, info.SetType(fiscal.CorrectionSelf))
	info.SetBaseDate(time.Date(2017, time.July, 25, 0, 0, 0, 0, time.Local))
	info.SetBaseNumber("1175")
	info.SetBaseName("Акт технического заключения")

	c := &fiscal.Correction{}
	c.SetCompany(company)
	c.SetCorrectionInfo(info)
	require.NoError(t, c.AddPayment(newPayment(t, "2000")))
	require.NoError(t, c.AddVat(newVat(t, fiscal.Vat18, "10")))
	require.NoError(t, c.AddVat(newVat(t, fiscal.Vat10, "20")))
	return c
}

func newCorrectionDocument(t *testing.T, doc *fiscal.Document) *fiscal.Document {
	t.Helper()

	require.NoError(t, doc.SetExternalID("17052917561851307"))
	doc.SetTimestamp(time.Date(2017, time.February, 1, 13, 45, 0, 0, time.Local))
	require.NoError(t, doc.SetCorrection(newCorrection(t)))

	service := &fiscal.Service{}
	require.NoError(t, service.SetCallbackURL("http://testtest"))
	doc.SetService(service)
	return doc
}

func text(n int) string {
	return strings.Repeat("я", n)
}
