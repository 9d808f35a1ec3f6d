// Registro simulado para validar o transporte HTTP localmente:
//
//	go run ./teste-validacao/registro-simulado
//	REGISTRY_API_KEY=teste REGISTRY_BASE_URL=http://localhost:8081/qc go run ./cmd/gateway
//
// DOT terminado em 0 -> 404; terminado em 9 -> 500 (para ver o retry); resto -> 200.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /qc/services/carriers/{id}", func(w http.ResponseWriter, r *http.Request) {
		responder(w, r, r.PathValue("id"), "")
	})
	mux.HandleFunc("GET /qc/services/carriers/docket-number/{id}", func(w http.ResponseWriter, r *http.Request) {
		responder(w, r, "", r.PathValue("id"))
	})

	fmt.Println("Registro simulado rodando em http://localhost:8081/qc")
	if err := http.ListenAndServe(":8081", mux); err != nil {
		fmt.Printf("Erro ao subir o servidor: %s\n", err)
	}
}

func responder(w http.ResponseWriter, r *http.Request, dot, mc string) {
	id := dot + mc
	fmt.Printf("Log: consulta dot=%q mc=%q webKey=%t\n", dot, mc, r.URL.Query().Get("webKey") != "")

	switch {
	case r.URL.Query().Get("webKey") == "":
		http.Error(w, "missing webKey", http.StatusUnauthorized)
		return
	case strings.HasSuffix(id, "0"):
		http.Error(w, "not found", http.StatusNotFound)
		return
	case strings.HasSuffix(id, "9"):
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
		return
	}

	if dot == "" {
		dot = "1" + mc
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"content": []map[string]any{{
			"carrier": map[string]any{
				"dotNumber":       dot,
				"docketNumber":    mc,
				"legalName":       "Transportadora Simulada LTDA",
				"phyStreet":       "Rua das Flores 100",
				"phyCity":         "Austin",
				"phyState":        "TX",
				"phyZipcode":      "73301",
				"telephone":       "(512) 555-0100",
				"operatingStatus": "ACTIVE",
				"safetyRating":    "Conditional",
				"totalPowerUnits": "12",
				"totalDrivers":    14,
				"crashTotal":      "3",
				"crashFatal":      0,
				"inspectionTotal": 20,
				"inspectionOOS":   "5",
				"equipmentTypes":  "Van, Reefer",
				"cargoCarried":    []string{"General Freight", "Produce"},
			},
		}},
	})
}
