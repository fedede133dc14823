package main

import (
	"net/http"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/gorilla/mux"

	"github.com/glimmer-tech/menagerie/core"
	"github.com/glimmer-tech/menagerie/core/access"
	"github.com/glimmer-tech/menagerie/core/backend"
	"github.com/glimmer-tech/menagerie/core/csql"
	"github.com/glimmer-tech/menagerie/core/logger"
	"github.com/glimmer-tech/menagerie/core/store"
)

// Service holds the configuration for this service
//
// use POSTGRES="host=localhost port=5432 user=postgres dbname=postgres sslmode=disable"
type Service struct {
	Postgres         string `env:"POSTGRES,required" description:"the connection string for the Postgres DB"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,default=" description:"password to the Postgres DB"`
	Port             string `env:"PORT,default=3000" description:"the port this service listens on"`
	OAuthClientID    string `env:"OAUTH_CLIENT_ID,required" description:"the Google OAuth2 client id"`
	OAuthSecret      string `env:"OAUTH_CLIENT_SECRET,required" description:"the Google OAuth2 client secret"`
}

func main() {
	logger.InitLogger(logrus.InfoLevel)
	log := logger.Default()

	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	db := csql.OpenWithSchema(service.Postgres, service.PostgresPassword, "menagerie")
	defer db.Close()

	documents, err := store.NewPostgres(db, core.Kinds()...)
	if err != nil {
		log.WithError(err).Fatalln("cannot create document tables")
	}

	router := mux.NewRouter()
	backend.New(&backend.Builder{
		Store:  documents,
		Router: router,
		Verifier: access.NewGoogleVerifier(&access.GoogleVerifierBuilder{
			ClientID: service.OAuthClientID,
		}),
		Login: &backend.LoginConfig{
			ClientID:     service.OAuthClientID,
			ClientSecret: service.OAuthSecret,
		},
	})

	log.Infoln("listen on port :" + service.Port)
	log.Fatalln(http.ListenAndServe(":"+service.Port, router))
}
