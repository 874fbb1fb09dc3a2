package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"wgapi/internal/logs"
	"wgapi/internal/models"
	"wgapi/internal/wg"
)

// Options — внешние параметры обработчиков.
type Options struct {
	Token           string // токен для legacy raw-команды
	ServerPublicKey string // пусто — спрашиваем у wg
	ServerEndpoint  string // host:port для клиентских конфигов
}

type Handler struct {
	mgr  wg.Manager
	run  wg.Runner
	opts Options
}

func NewHandler(mgr wg.Manager, run wg.Runner, opts Options) *Handler {
	return &Handler{mgr: mgr, run: run, opts: opts}
}

// GET /peers
func (h *Handler) ListPeers(w http.ResponseWriter, r *http.Request) {
	peers := h.mgr.ListPeers(r.Context())
	result := make([]models.Peer, 0, len(peers))
	for _, p := range peers {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PublicKey < result[j].PublicKey })
	models.WriteJSON(w, http.StatusOK, result)
}

// POST /peers[?format=conf]
func (h *Handler) CreatePeer(w http.ResponseWriter, r *http.Request) {
	var req PeerCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}

	renderConf := r.URL.Query().Get("format") == "conf"
	if renderConf && req.PublicKey != "" {
		// приватный ключ пира нам неизвестен — собрать полный конфиг нельзя
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request",
			"config rendering requires a server-generated keypair", nil)
		return
	}

	privKey := ""
	pubKey := req.PublicKey
	if pubKey == "" {
		var err error
		privKey, pubKey, err = h.mgr.GenKeys(r.Context())
		if err != nil {
			models.WriteProblem(w, http.StatusInternalServerError, "Key Generation Failed", err.Error(), nil)
			return
		}
	}

	ips := req.AllowedIPs
	if len(ips) == 0 {
		allocated, err := h.allocate(r.Context())
		if err != nil {
			models.WriteProblem(w, http.StatusInternalServerError, "Allocation Failed", err.Error(), nil)
			return
		}
		ips = []string{allocated + "/32"}
	}

	if err := h.mgr.CreatePeer(r.Context(), pubKey, ips); err != nil {
		logs.Logger.Errorf("failed to create peer: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Peer Creation Failed", err.Error(), nil)
		return
	}

	if renderConf {
		serverPub, err := h.serverPublicKey(r.Context())
		if err != nil {
			models.WriteProblem(w, http.StatusInternalServerError, "Config Rendering Failed", err.Error(), nil)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprint(w, clientConfig(privKey, ips, serverPub, h.opts.ServerEndpoint))
		return
	}

	models.WriteJSON(w, http.StatusCreated, PeerCreateResponse{
		PublicKey:  pubKey,
		AllowedIPs: ips,
		PrivateKey: privKey,
	})
}

// GET /peers/{public_key}
func (h *Handler) GetPeer(w http.ResponseWriter, r *http.Request) {
	publicKey := mux.Vars(r)["public_key"]
	peer, ok := h.mgr.ListPeers(r.Context())[publicKey]
	if !ok {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "Peer not found", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, peer)
}

// DELETE /peers/{public_key}
func (h *Handler) DeletePeer(w http.ResponseWriter, r *http.Request) {
	publicKey := mux.Vars(r)["public_key"]
	// существование проверяем сами: у шлюза нет отдельного «не найдено»
	if _, ok := h.mgr.ListPeers(r.Context())[publicKey]; !ok {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "Peer not found", nil)
		return
	}
	if err := h.mgr.DeletePeer(r.Context(), publicKey); err != nil {
		logs.Logger.Errorf("failed to delete peer: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Peer Deletion Failed", err.Error(), nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /peers/{public_key}/config — серверная половина клиентского
// конфига; приватного ключа пира у нас нет.
func (h *Handler) GetPeerConfig(w http.ResponseWriter, r *http.Request) {
	publicKey := mux.Vars(r)["public_key"]
	if _, ok := h.mgr.ListPeers(r.Context())[publicKey]; !ok {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "Peer not found", nil)
		return
	}
	serverPub, err := h.serverPublicKey(r.Context())
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Config Rendering Failed", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, PeerConfigResponse{
		Config: peerSection(serverPub, h.opts.ServerEndpoint),
		Note:   "Add your private key to the interface section found in POST response",
	})
}

// POST / — legacy-ручка: произвольная shell-команда под токеном.
// Осознанно опасный операторский ход; контракт исторический —
// 200 и {"status":"Error: ..."} даже при неудаче команды.
func (h *Handler) RawCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if req.Token != h.opts.Token {
		models.WriteJSON(w, http.StatusForbidden, map[string]string{
			"detail": "Invalid authentication token",
		})
		return
	}
	logs.Logger.Warnf("raw command endpoint used: %q", req.Command)
	out, err := h.run.Run("sh", "-c", req.Command)
	if err != nil {
		models.WriteJSON(w, http.StatusOK, CommandResponse{Status: "Error: " + out})
		return
	}
	models.WriteJSON(w, http.StatusOK, CommandResponse{Status: out})
}

// allocate: снимок занятых адресов живых пиров (не реестра) и первый
// свободный хост. Между снимком и созданием пира блокировки нет —
// параллельные запросы могут выбрать один адрес (известная гонка).
func (h *Handler) allocate(ctx context.Context) (string, error) {
	subnet, err := h.mgr.InterfaceSubnet(ctx)
	if err != nil {
		return "", err
	}
	used := map[string]struct{}{}
	for _, p := range h.mgr.ListPeers(ctx) {
		for _, cidr := range p.AllowedIPs {
			used[strings.Split(cidr, "/")[0]] = struct{}{}
		}
	}
	return wg.AllocateNext(subnet, used)
}

func (h *Handler) serverPublicKey(ctx context.Context) (string, error) {
	if h.opts.ServerPublicKey != "" {
		return h.opts.ServerPublicKey, nil
	}
	return h.mgr.InterfacePublicKey(ctx)
}

func peerSection(serverPub, endpoint string) string {
	return strings.TrimSpace(fmt.Sprintf(`
[Peer]
PublicKey = %s
Endpoint = %s
AllowedIPs = 0.0.0.0/0, ::/0
PersistentKeepalive = 25
`, serverPub, endpoint))
}

func clientConfig(privateKey string, addresses []string, serverPub, endpoint string) string {
	return fmt.Sprintf(`[Interface]
PrivateKey = %s
Address = %s

%s
`, privateKey, strings.Join(addresses, ", "), peerSection(serverPub, endpoint))
}
