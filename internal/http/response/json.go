// Package response, API yanıtlarını tek bir merkezden üretir. Başarılı
// yanıtlar ortak JSONResponse zarfıyla, hatalar ise RFC 7807 problem
// dokümanı (application/problem+json) olarak yazılır.
package response

import (
	"encoding/json"
	"net/http"
)

// JSONResponse, başarılı API yanıtlarının ortak sözleşmesidir.
//
// Alanlar:
//   - Success: İşlemin başarılı olup olmadığı.
//   - Data: Asıl içerik.
//   - Error: Hata mesajı (başarısızsa).
//   - Meta: Sayfalama vb. ek bilgiler, opsiyonel.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// Send, payload'ı verilen status ile JSON olarak yazar.
func Send(w http.ResponseWriter, status int, payload JSONResponse) error {
	return writeJSON(w, status, "application/json", payload)
}

// Success, başarılı bir yanıt yazar.
func Success(w http.ResponseWriter, status int, data interface{}, meta interface{}) error {
	return Send(w, status, JSONResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeJSON(w http.ResponseWriter, status int, contentType string, payload any) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}
