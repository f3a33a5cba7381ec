package emailjs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/emailjs"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.OrderSubmitter = (*emailjs.Submitter)(nil)

func sampleOrder() domain.Order {
	cart := domain.Cart{{ID: "aura-black", Name: "Aura", Price: 899, Qty: 1}}
	return domain.Order{
		Reference: "ref-1",
		Zone:      domain.ZoneOutside,
		Payment:   domain.PaymentInfo{Method: domain.PaymentCOD},
		Totals:    domain.Quote(cart.Subtotal(), domain.ZoneOutside, domain.DefaultTariffs),
		Items:     []string{domain.ItemLine(cart[0])},
		Shipping:  domain.ShippingInfo{Name: "Karim", Phone: "0190", Address: "Sylhet"},
		Cart:      cart,
	}
}

func TestNew_RequiresIdentifiers(t *testing.T) {
	_, err := emailjs.New(emailjs.Config{ServiceID: "s", TemplateID: "t"})
	assert.ErrorIs(t, err, emailjs.ErrNotConfigured)
}

func TestSubmit_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	sub, err := emailjs.New(emailjs.Config{
		ServiceID:  "service_x",
		TemplateID: "template_y",
		PublicKey:  "pub",
		PrivateKey: "priv",
		Endpoint:   srv.URL,
	})
	require.NoError(t, err)

	require.NoError(t, sub.Submit(context.Background(), sampleOrder()))

	assert.Equal(t, "service_x", got["service_id"])
	assert.Equal(t, "template_y", got["template_id"])
	assert.Equal(t, "pub", got["user_id"])
	assert.Equal(t, "priv", got["accessToken"])

	params, ok := got["template_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Outside Dhaka", params["Area"])
	assert.Equal(t, "COD", params["Payment Method"])
	assert.Equal(t, "1029", params["Total"])
	assert.Equal(t, "Aura x 1 = ৳899", params["Item 1"])
	assert.Equal(t, "ref-1", params["reference"])
	assert.NotContains(t, params, "Trx ID")
}

func TestSubmit_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The Public Key is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	sub, err := emailjs.New(emailjs.Config{ServiceID: "s", TemplateID: "t", PublicKey: "bad", Endpoint: srv.URL})
	require.NoError(t, err)

	err = sub.Submit(context.Background(), sampleOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "The Public Key is invalid")
}

func TestSubmit_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	sub, err := emailjs.New(emailjs.Config{ServiceID: "s", TemplateID: "t", PublicKey: "p", Endpoint: srv.URL},
		emailjs.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, sub.Submit(ctx, sampleOrder()))
}
