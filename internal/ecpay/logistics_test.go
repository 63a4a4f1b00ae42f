package ecpay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogisticsGetStoreList(t *testing.T) {
	var received map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form failed: %v", err)
		}
		received = r.PostForm
		w.Write([]byte("store list payload"))
	}))
	defer server.Close()

	client, err := NewLogisticsClient(&LogisticsConfig{
		MerchantID:   "2000132",
		HashKey:      testHashKey,
		HashIV:       testHashIV,
		StoreListURL: server.URL,
	})
	if err != nil {
		t.Fatalf("new logistics client failed: %v", err)
	}

	body, err := client.GetStoreList(context.Background(), "UNIMART")
	if err != nil {
		t.Fatalf("get store list failed: %v", err)
	}
	if string(body) != "store list payload" {
		t.Fatalf("body want relayed verbatim got %q", string(body))
	}
	if got := firstValue(received, "CvsType"); got != "UNIMART" {
		t.Fatalf("cvs type want UNIMART got %s", got)
	}
	if got := firstValue(received, "MerchantID"); got != "2000132" {
		t.Fatalf("merchant id want 2000132 got %s", got)
	}
	want := NewCheckMac(testHashKey, testHashIV).Generate(map[string]string{
		"MerchantID": "2000132",
		"CvsType":    "UNIMART",
	})
	if got := firstValue(received, CheckMacValueKey); got != want {
		t.Fatalf("check mac want %s got %s", want, got)
	}
}

func TestLogisticsGetStoreListGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewLogisticsClient(&LogisticsConfig{
		MerchantID:   "2000132",
		HashKey:      testHashKey,
		HashIV:       testHashIV,
		StoreListURL: server.URL,
	})
	if err != nil {
		t.Fatalf("new logistics client failed: %v", err)
	}
	if _, err := client.GetStoreList(context.Background(), "FAMI"); err == nil {
		t.Fatal("gateway 500 must surface an error")
	}
}

func TestNewLogisticsClientConfigValidation(t *testing.T) {
	if _, err := NewLogisticsClient(nil); err == nil {
		t.Fatal("nil config must fail")
	}
	if _, err := NewLogisticsClient(&LogisticsConfig{MerchantID: "2000132"}); err == nil {
		t.Fatal("missing secrets must fail")
	}
}
