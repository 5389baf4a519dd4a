package main

import (
	"errors"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type gameRequest struct {
	Difficulty string
	Board      string
}

type moveRequest struct {
	From      string
	To        string
	Promotion string
}

type gameResponse struct {
	Href string
	Game Game
}

type gamesResponse struct {
	Href  string
	Games []Game
}

type analysisResponse struct {
	Href    string
	Moves   []moveScore
	Summary scoreSummary
}

type levelsResponse struct {
	Href   string
	Levels map[difficulty]level
}

func errToHTTP(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.ErrNotFound
	}
	return err
}

func requestID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return id, nil
}

func requestGame(c echo.Context) (*Game, error) {
	id, err := requestID(c)
	if err != nil {
		return nil, err
	}
	return getGame(id)
}

func responseGame(game *Game) gameResponse {
	return gameResponse{Game: *game.derive(), Href: path.Join("/games", game.GameID.String())}
}

func responseGames(games []Game) gamesResponse {
	for i := range games {
		games[i].derive()
	}
	return gamesResponse{Games: games, Href: "/games"}
}

func apiHandler() *echo.Echo {
	e := echo.New()

	e.GET("/difficulties", func(c echo.Context) error {
		return c.JSON(http.StatusOK, levelsResponse{Levels: levels, Href: "/difficulties"})
	})
	e.GET("/games", func(c echo.Context) error {
		games, err := getGames()
		if err != nil {
			return errToHTTP(err)
		}
		return c.JSON(http.StatusOK, responseGames(games))
	})
	e.POST("/games", func(c echo.Context) error {
		var request gameRequest
		if err := c.Bind(&request); err != nil {
			return err
		}
		d, err := parseDifficulty(request.Difficulty)
		if err != nil {
			return err
		}
		game, err := makeGame(d, request.Board)
		if err != nil {
			return errToHTTP(err)
		}
		return c.JSON(http.StatusCreated, responseGame(game))
	})
	e.GET("/games/:id", func(c echo.Context) error {
		game, err := requestGame(c)
		if err != nil {
			return errToHTTP(err)
		}
		return c.JSON(http.StatusOK, responseGame(game))
	})
	e.PUT("/games/:id/moves", func(c echo.Context) error {
		id, err := requestID(c)
		if err != nil {
			return err
		}
		var request moveRequest
		if err := c.Bind(&request); err != nil {
			return err
		}
		game, err := withGame(id, func(tx *gorm.DB, game *Game) error {
			return game.submitMove(tx, request.From, request.To, request.Promotion)
		})
		if err != nil {
			return errToHTTP(err)
		}
		return c.JSON(http.StatusOK, responseGame(game))
	})
	e.POST("/games/:id/hints", func(c echo.Context) error {
		id, err := requestID(c)
		if err != nil {
			return err
		}
		game, err := withGame(id, func(tx *gorm.DB, game *Game) error {
			return game.makeHint(tx)
		})
		if err != nil {
			return errToHTTP(err)
		}
		return c.JSON(http.StatusOK, responseGame(game))
	})
	e.POST("/games/:id/reset", func(c echo.Context) error {
		id, err := requestID(c)
		if err != nil {
			return err
		}
		var request gameRequest
		if err := c.Bind(&request); err != nil {
			return err
		}
		d, err := parseDifficulty(request.Difficulty)
		if err != nil {
			return err
		}
		game, err := withGame(id, func(tx *gorm.DB, game *Game) error {
			return game.reset(tx, d)
		})
		if err != nil {
			return errToHTTP(err)
		}
		return c.JSON(http.StatusOK, responseGame(game))
	})
	e.GET("/games/:id/analysis", func(c echo.Context) error {
		game, err := requestGame(c)
		if err != nil {
			return errToHTTP(err)
		}
		moves, summary, err := game.analyze()
		if err != nil {
			return errToHTTP(err)
		}
		href := path.Join("/games", game.GameID.String(), "analysis")
		return c.JSON(http.StatusOK, analysisResponse{Moves: moves, Summary: summary, Href: href})
	})

	e.File("/", "static/index.html")
	e.File("/favicon.ico", "images/favicon.ico")
	e.Static("/static", "static")

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Gzip())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	return e
}
