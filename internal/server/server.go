/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package server

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"developer-api/config"
	"developer-api/internal/constants"
	"developer-api/internal/database"
	"developer-api/internal/handler"
	"developer-api/internal/logger"
	"developer-api/internal/middleware"
	"developer-api/internal/repository"
	"developer-api/internal/service"
	"developer-api/internal/token"
	"developer-api/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router     *gin.Engine
	db         *database.DB
	webhookSvc *service.WebhookService
	hub        *websocket.Hub
	logger     *zap.Logger
}

// StartDeveloperAPIServer creates a new server instance with all dependencies initialized
func StartDeveloperAPIServer(cfg *config.Server) (*Server, error) {
	log := logger.New(cfg.LogLevel)

	// Initialize database using configuration
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// Initialize schema (skip when ExecuteSchemaDDL is false, e.g. deployed Postgres without DDL access)
	if cfg.Database.ExecuteSchemaDDL {
		if err := db.InitSchema(cfg.DBSchemaPath); err != nil {
			return nil, err
		}
	} else {
		log.Info("Skipping schema DDL execution (DATABASE_EXECUTE_SCHEMA_DDL=false)")
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepo(db)
	apiKeyRepo := repository.NewAPIKeyRepo(db)
	usageRepo := repository.NewUsageRepo(db)
	clientRepo := repository.NewOAuthClientRepo(db)
	codeRepo := repository.NewAuthorizationCodeRepo(db)
	refreshRepo := repository.NewRefreshTokenRepo(db)
	webhookRepo := repository.NewWebhookRepo(db)
	eventRepo := repository.NewWebhookEventRepo(db)

	// Token codec shared by the API key authenticator and the OAuth server
	codec := token.NewCodec(cfg.Token.SecretKey, time.Duration(cfg.Token.TTLSeconds)*time.Second)

	// WebSocket hub streaming webhook delivery outcomes to subscribers
	hub := websocket.NewHub(cfg.WebSocket.MaxConnections, log)

	// Initialize services
	orgSvc := service.NewOrganizationService(orgRepo)
	apiKeySvc := service.NewAPIKeyService(apiKeyRepo, orgRepo, codec, service.RateLimitDefaults{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		RequestsPerHour:   cfg.RateLimit.RequestsPerHour,
		RequestsPerDay:    cfg.RateLimit.RequestsPerDay,
	}, log)
	oauthSvc := service.NewOAuthService(clientRepo, codeRepo, refreshRepo, orgRepo, codec,
		time.Duration(cfg.OAuth.AuthorizationCodeTTLSeconds)*time.Second,
		time.Duration(cfg.OAuth.RefreshTokenTTLSeconds)*time.Second, log)
	securitySvc := service.NewSecurityService(codec)
	rateLimitSvc := service.NewRateLimitService(usageRepo, apiKeyRepo, log)
	webhookSvc := service.NewWebhookService(webhookRepo, eventRepo,
		time.Duration(cfg.Webhook.DeliveryTimeout)*time.Second,
		cfg.Webhook.MaxFailures, cfg.Webhook.DispatchWorkers, hub, log)
	versionSvc := service.NewVersionService(cfg.DeprecationDocsURL)
	if err := versionSvc.LoadFromFile(cfg.EndpointRegistryPath); err != nil {
		log.Warn("Endpoint registry not loaded; all routes report the default version",
			zap.String("path", cfg.EndpointRegistryPath), zap.Error(err))
	}

	// Initialize handlers
	orgHandler := handler.NewOrganizationHandler(orgSvc)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeySvc, rateLimitSvc, securitySvc)
	throttle := middleware.NewIPThrottle(cfg.OAuth.TokenEndpointRatePerMin)
	oauthHandler := handler.NewOAuthHandler(oauthSvc, throttle)
	webhookHandler := handler.NewWebhookHandler(webhookSvc, securitySvc,
		middleware.RateLimit(rateLimitSvc, apiKeySvc))
	versionHandler := handler.NewVersionHandler(versionSvc)
	openapiHandler, err := handler.NewOpenAPIHandler(cfg.OpenAPIPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}

	// Setup router
	router := gin.Default()

	// Org-scoped routes answer CORS from the organization's allowed-origin
	// list; everything else (token endpoint, discovery, org creation) is open.
	openCORS := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	})
	tenantCORS := middleware.TenantCORS(orgSvc, securitySvc)
	router.Use(func(c *gin.Context) {
		if c.Param("orgId") != "" {
			tenantCORS(c)
			return
		}
		openCORS(c)
	})

	// Version and deprecation headers on every matched route
	router.Use(middleware.VersionHeaders(versionSvc))

	// Register routes
	orgHandler.RegisterRoutes(router)
	apiKeyHandler.RegisterRoutes(router)
	oauthHandler.RegisterRoutes(router)
	webhookHandler.RegisterRoutes(router)
	versionHandler.RegisterRoutes(router)
	openapiHandler.RegisterRoutes(router)

	// Live delivery stream for webhook events
	router.GET("/api/v1/organizations/:orgId/webhooks/stream",
		middleware.RequireAuth(securitySvc, constants.PermissionWebhookManage),
		hub.ServeStream)

	log.Info("WebSocket hub initialized",
		zap.Int("maxConnections", cfg.WebSocket.MaxConnections),
		zap.Int("connectionTimeout", cfg.WebSocket.ConnectionTimeout))

	return &Server{
		router:     router,
		db:         db,
		webhookSvc: webhookSvc,
		hub:        hub,
		logger:     log,
	}, nil
}

// generateSelfSignedCert creates a self-signed certificate for development and saves it to disk
func generateSelfSignedCert(certPath, keyPath string) (tls.Certificate, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"Developer API Dev"},
			Country:      []string{"US"},
		},
		NotBefore:   time.Now(),
		NotAfter:    time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:    x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses: []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		DNSNames:    []string{"localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	// Save certificate and key to disk for persistence
	if err := os.WriteFile(certPath, certPEM, 0644); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to save certificate: %v", err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to save private key: %v", err)
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, err
	}

	return cert, nil
}

// Start starts the HTTPS server
func (s *Server) Start(port string, certDir string) error {
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}

	certPath := filepath.Join(certDir, "cert.pem")
	keyPath := filepath.Join(certDir, "key.pem")

	var cert tls.Certificate

	// Try to load existing certificates first
	if _, certErr := os.Stat(certPath); certErr == nil {
		if _, keyErr := os.Stat(keyPath); keyErr == nil {
			loadedCert, err := tls.LoadX509KeyPair(certPath, keyPath)
			if err != nil {
				s.logger.Warn("Failed to load certificates", zap.Error(err))
			} else {
				s.logger.Info("Using existing certificates", zap.String("certDir", certDir))
				cert = loadedCert
			}
		}
	}

	// Generate new certificate if not loaded
	if cert.Certificate == nil {
		s.logger.Info("Generating self-signed certificate for development")
		if err := os.MkdirAll(certDir, 0755); err != nil {
			return fmt.Errorf("failed to create cert directory: %v", err)
		}
		generatedCert, err := generateSelfSignedCert(certPath, keyPath)
		if err != nil {
			return fmt.Errorf("failed to generate self-signed certificate: %v", err)
		}
		cert = generatedCert
	}

	// Health endpoint that works with self-signed certs
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	address := fmt.Sprintf(":%s", port)
	server := &http.Server{
		Addr:      address,
		Handler:   s.router,
		TLSConfig: tlsConfig,
	}

	s.logger.Info("Starting HTTPS server", zap.String("address", "https://localhost:"+port))
	return server.ListenAndServeTLS("", "")
}

// Shutdown drains the webhook delivery workers and closes stream clients.
func (s *Server) Shutdown() {
	s.webhookSvc.Close()
	s.hub.Shutdown()
	if err := s.db.Close(); err != nil {
		s.logger.Warn("Failed to close database", zap.Error(err))
	}
}

// GetRouter returns the gin router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
