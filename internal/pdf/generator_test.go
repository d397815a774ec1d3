package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/invoice"
	"github.com/garyjia/invoice-studio/internal/money"
)

func sampleInput() Input {
	return Input{
		Invoice: invoice.ViewModel{
			Number:         "INV-7",
			IssueDate:      "2024-03-05",
			DueDate:        "2024-04-04",
			Currency:       money.USD,
			CurrencySymbol: "$",
			Customer: invoice.Customer{
				Name:    "Acme Corp",
				Email:   "billing@acme.test",
				Address: "12 MG Road, Pune, 411001",
			},
			Items: []invoice.LineItem{
				{Name: "Consulting", Description: "Architecture review", Quantity: 2, Price: decimal.NewFromInt(100), Specs: []string{"Two sessions"}},
				{Name: "Ghost", Description: "Removed row", Quantity: 0, Price: decimal.NewFromInt(5000)},
			},
			DiscountPercent: decimal.NewFromInt(10),
			TaxEnabled:      true,
			TaxRate:         decimal.NewFromInt(10),
			Notes:           []string{"Net 30"},
			Payment:         invoice.DefaultPaymentDetails,
			CreatedBy:       "Priya",
		},
		Company: invoice.CompanyProfile{Name: "Orbit Labs"},
	}
}

func newTestGenerator(images ImageSource, opts Options) *Generator {
	return NewGenerator(opts, images, zap.NewNop())
}

func TestGenerator_Render(t *testing.T) {
	t.Run("end to end totals and words", func(t *testing.T) {
		c := newRecordingCanvas()

		totals, err := newTestGenerator(nil, Options{}).Render(c, sampleInput())

		require.NoError(t, err)
		assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(200)))
		assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromInt(20)))
		assert.True(t, totals.TaxAmount.Equal(decimal.NewFromInt(18)))
		assert.True(t, totals.Total.Equal(decimal.NewFromInt(198)))

		texts := c.texts()
		assert.Contains(t, texts, "$198")
		assert.Contains(t, texts, "One Hundred Ninety Eight USD Only")
		assert.Contains(t, texts, "Subtotal:")
		assert.Contains(t, texts, "Tax (10%):")
		assert.Contains(t, texts, "$18")
		assert.Contains(t, texts, "Discount (10%):")
		assert.Contains(t, texts, "-$20")
	})

	t.Run("zero quantity rows are not printed", func(t *testing.T) {
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, sampleInput())

		require.NoError(t, err)
		assert.NotContains(t, c.texts(), "Ghost")
		assert.NotContains(t, c.texts(), "$5,000")
		assert.Contains(t, c.texts(), "Consulting")
		assert.Contains(t, c.texts(), "• Two sessions")
	})

	t.Run("unnamed item fallback", func(t *testing.T) {
		in := sampleInput()
		in.Invoice.Items[0].Name = ""
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, in)

		require.NoError(t, err)
		assert.Contains(t, c.texts(), invoice.UnnamedItem)
	})

	t.Run("tax and discount rows hidden when zero", func(t *testing.T) {
		in := sampleInput()
		in.Invoice.TaxEnabled = false
		in.Invoice.DiscountPercent = decimal.Zero
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, in)

		require.NoError(t, err)
		assert.Contains(t, c.texts(), "Subtotal:")
		assert.False(t, c.hasTextPrefix("Tax ("))
		assert.False(t, c.hasTextPrefix("Discount ("))
		assert.Contains(t, c.texts(), "Two Hundred USD Only")
	})

	t.Run("title values are right aligned to the margin", func(t *testing.T) {
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, sampleInput())
		require.NoError(t, err)

		for _, value := range []string{"INV-7", "05/03/2024", "04/04/2024", "USD"} {
			op, ok := c.findText(value)
			require.True(t, ok, value)
			width := float64(len(value)) * op.size * 0.2
			assert.InDelta(t, 195.0, op.x+width, 0.0001, value)
		}
	})

	t.Run("address is split on commas", func(t *testing.T) {
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, sampleInput())

		require.NoError(t, err)
		for _, part := range []string{"12 MG Road", "Pune", "411001", "billing@acme.test"} {
			assert.Contains(t, c.texts(), part)
		}
	})

	t.Run("payment signature and creator", func(t *testing.T) {
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, sampleInput())

		require.NoError(t, err)
		assert.Contains(t, c.texts(), "For Orbit Labs,")
		assert.Contains(t, c.texts(), "Priya")
		assert.Contains(t, c.texts(), invoice.DefaultPaymentDetails.BankName)
	})
}

func TestGenerator_Notes(t *testing.T) {
	t.Run("invoice notes", func(t *testing.T) {
		c := newRecordingCanvas()
		_, err := newTestGenerator(nil, Options{}).Render(c, sampleInput())
		require.NoError(t, err)
		assert.Contains(t, c.texts(), "• Net 30")
	})

	t.Run("configured notes when invoice has none", func(t *testing.T) {
		in := sampleInput()
		in.Invoice.Notes = nil
		in.Config.DefaultNotes = []string{"Configured note"}
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, in)

		require.NoError(t, err)
		assert.Contains(t, c.texts(), "• Configured note")
	})

	t.Run("built-in fallback notes", func(t *testing.T) {
		in := sampleInput()
		in.Invoice.Notes = nil
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, in)

		require.NoError(t, err)
		for _, note := range invoice.FallbackNotes {
			assert.Contains(t, strings.Join(c.texts(), " "), note)
		}
	})

	t.Run("placeholder when resolved notes are empty", func(t *testing.T) {
		in := sampleInput()
		in.Invoice.Notes = nil
		in.Config.DefaultNotes = []string{}
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, in)

		require.NoError(t, err)
		assert.Contains(t, strings.Join(c.texts(), " "), invoice.NoNotesPlaceholder)
	})

	t.Run("thank you text and quote from configuration", func(t *testing.T) {
		in := sampleInput()
		in.Config.ThankYouText = "Cheers"
		in.Config.FooterQuote = "Stay curious"
		c := newRecordingCanvas()

		_, err := newTestGenerator(nil, Options{}).Render(c, in)

		require.NoError(t, err)
		op, ok := c.findText("Cheers")
		require.True(t, ok)
		assert.InDelta(t, 15+(180-6*11*0.2)/2, op.x, 0.0001)
		assert.Contains(t, c.texts(), "Stay curious")
	})
}

func TestGenerator_Images(t *testing.T) {
	t.Run("configured images are drawn", func(t *testing.T) {
		in := sampleInput()
		in.Company.LogoRef = "brand.png"
		in.Company.StampRef = "seal.png"
		c := newRecordingCanvas()
		images := mapImages{"brand.png": "png", "seal.png": "png"}

		_, err := newTestGenerator(images, Options{}).Render(c, in)

		require.NoError(t, err)
		assert.Equal(t, 2, c.count("image"))
	})

	t.Run("falls back to the default asset", func(t *testing.T) {
		in := sampleInput()
		in.Company.LogoRef = "brand.png"
		c := newRecordingCanvas()
		images := mapImages{"brand.png": "corrupt", invoice.DefaultLogoRef: "png"}

		_, err := newTestGenerator(images, Options{}).Render(c, in)

		require.NoError(t, err)
		assert.Equal(t, []string{"logo-1"}, c.registered)
		assert.Equal(t, 1, c.count("image"))
	})

	t.Run("missing images are omitted", func(t *testing.T) {
		c := newRecordingCanvas()

		_, err := newTestGenerator(mapImages{}, Options{}).Render(c, sampleInput())

		require.NoError(t, err)
		assert.Zero(t, c.count("image"))
	})

	t.Run("unrecoverable canvas failure is reported once", func(t *testing.T) {
		c := newRecordingCanvas()
		c.fatal = errors.New("broken stream")

		_, err := newTestGenerator(nil, Options{}).Render(c, sampleInput())

		assert.ErrorIs(t, err, ErrRenderFailed)
	})
}

func TestGenerator_Pagination(t *testing.T) {
	in := sampleInput()
	in.Invoice.Items = nil
	for i := 0; i < 30; i++ {
		in.Invoice.Items = append(in.Invoice.Items, invoice.LineItem{
			Name:        fmt.Sprintf("Item %d", i+1),
			Description: "Monthly retainer",
			Quantity:    1,
			Price:       decimal.NewFromInt(10),
		})
	}
	c := newRecordingCanvas()

	totals, err := newTestGenerator(nil, Options{}).Render(c, in)

	require.NoError(t, err)
	assert.Greater(t, c.pages, 1)
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(300)))
	for _, op := range c.ops {
		if op.kind == "text" {
			assert.LessOrEqual(t, op.y, 297.0-defaultMargin, op.text)
		}
	}
	last, ok := c.findText("Item 30")
	require.True(t, ok)
	assert.Greater(t, last.page, 1)
}

func TestGenerator_MeasureItemRows(t *testing.T) {
	in := sampleInput()
	long := strings.Repeat("lengthy description words ", 20)
	in.Invoice.Items = []invoice.LineItem{
		{Name: "First", Description: long, Quantity: 1, Price: decimal.NewFromInt(1)},
		{Name: "Second", Description: "short", Quantity: 1, Price: decimal.NewFromInt(1)},
	}

	secondY := func(opts Options) float64 {
		c := newRecordingCanvas()
		_, err := newTestGenerator(nil, opts).Render(c, in)
		require.NoError(t, err)
		first, _ := c.findText("First")
		second, ok := c.findText("Second")
		require.True(t, ok)
		return second.y - first.y
	}

	assert.Equal(t, itemRowPitch, secondY(Options{}))
	assert.Greater(t, secondY(Options{MeasureItemRows: true}), itemRowPitch)
}

func gray16PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray16(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(x*y) * 4000})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 64, B: 175, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("produces a pdf", func(t *testing.T) {
		gen := newTestGenerator(nil, Options{})

		doc, err := gen.Generate(sampleInput())

		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF-")))
		assert.GreaterOrEqual(t, doc.Pages, 1)
		assert.True(t, doc.Totals.Total.Equal(decimal.NewFromInt(198)))
		assert.True(t, strings.HasPrefix(doc.DataURI(), "data:application/pdf;base64,"))
	})

	t.Run("embeds a png logo and skips undecodable stamp", func(t *testing.T) {
		in := sampleInput()
		in.Company.LogoRef = "logo.png"
		in.Company.StampRef = "stamp.png"
		logo := testPNG(t)
		images := ImageSourceFunc(func(ref string) ([]byte, error) {
			if ref == "logo.png" {
				return logo, nil
			}
			return []byte("definitely not an image"), nil
		})

		doc, err := newTestGenerator(images, Options{}).Generate(in)

		require.NoError(t, err)
		assert.NotEmpty(t, doc.Bytes)
	})

	t.Run("16-bit logo falls back without failing the render", func(t *testing.T) {
		in := sampleInput()
		in.Company.LogoRef = "deep.png"
		deep, valid := gray16PNG(t), testPNG(t)
		var requested []string
		images := ImageSourceFunc(func(ref string) ([]byte, error) {
			requested = append(requested, ref)
			if ref == "deep.png" {
				return deep, nil
			}
			return valid, nil
		})

		doc, err := newTestGenerator(images, Options{}).Generate(in)

		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF-")))
		assert.Contains(t, requested, "deep.png")
		assert.Greater(t, len(requested), 1, "fallback refs are tried")
	})

	t.Run("unembeddable images everywhere are omitted", func(t *testing.T) {
		in := sampleInput()
		in.Company.LogoRef = "deep.png"
		in.Company.StampRef = "deep-stamp.png"
		deep := gray16PNG(t)
		images := ImageSourceFunc(func(ref string) ([]byte, error) { return deep, nil })

		doc, err := newTestGenerator(images, Options{}).Generate(in)

		require.NoError(t, err)
		assert.NotEmpty(t, doc.Bytes)
	})

	t.Run("rupee invoices render with core fonts", func(t *testing.T) {
		in := sampleInput()
		in.Invoice.Currency = money.INR

		doc, err := newTestGenerator(nil, Options{PageSize: "Letter"}).Generate(in)

		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF-")))
	})

	t.Run("missing font file fails the whole render", func(t *testing.T) {
		gen := newTestGenerator(nil, Options{Fonts: FontFiles{Regular: "/nonexistent/font.ttf"}})

		doc, err := gen.Generate(sampleInput())

		assert.Nil(t, doc)
		assert.ErrorIs(t, err, ErrRenderFailed)
	})
}

func TestFpdfCanvas_RegisterImage(t *testing.T) {
	c, err := NewFpdfCanvas("A4", FontFiles{})
	require.NoError(t, err)
	c.AddPage()

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "not an image", data: []byte("nope"), wantErr: true},
		{name: "16-bit png", data: gray16PNG(t), wantErr: true},
		{name: "rgba png", data: testPNG(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := c.RegisterImage(tt.name, tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrImageDecode)
				assert.Nil(t, img)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 8, img.Width)
			}
			assert.NoError(t, c.Err(), "a rejected image leaves the canvas usable")
		})
	}

	var buf bytes.Buffer
	require.NoError(t, c.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
