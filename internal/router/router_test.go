package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"listingBoard/internal/handlers"
	"listingBoard/internal/models"
	"listingBoard/internal/storage"
	"listingBoard/internal/storage/mocks"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testKey = `router-test-key`

func newAuth() *handlers.Auth {
	return handlers.NewAuth(testKey, time.Hour, 15*time.Minute)
}

// PerformLogin signs a token the way /dummyLogin does, but for a chosen user id.
func PerformLogin(userId, userType string) (string, error) {
	claims := &models.CustomClaims{
		UserId: userId,
		Type:   userType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	if err != nil {
		return ``, err
	}

	return `Bearer ` + tokenStr, nil
}

func validRequest() models.CreateListingRequest {
	return models.CreateListingRequest{
		Title:        `Cozy Home`,
		Purpose:      models.PurposeSell,
		PropertyType: models.PropertyHouse,
		Description:  `Two floors, quiet street`,
		City:         `Pune`,
		Address:      `12 Lake Rd`,
		Landmark:     `Near the park`,
		Media: []models.MediaRef{
			{URI: `/media/1`, Kind: models.MediaImage},
			{URI: `/media/2`, Kind: models.MediaImage},
			{URI: `/media/3`, Kind: models.MediaImage},
			{URI: `/media/4`, Kind: models.MediaVideo},
		},
		Price: 2500000,
		Area:  120.5,
	}
}

func TestDummyLoginHandler(t *testing.T) {

	testCases := []struct {
		userType     string
		expectedCode int
	}{
		// Тест 1: клиент получает токен
		{userType: models.UserTypeClient, expectedCode: http.StatusOK},
		// Тест 2: сотрудник получает токен
		{userType: models.UserTypeStaff, expectedCode: http.StatusOK},
		// Тест 3: неизвестный тип пользователя
		{userType: `moderator`, expectedCode: http.StatusBadRequest},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("Test case %d: %s", i, tc.userType), func(t *testing.T) {
			mockDB := mocks.NewDatabase(t)
			mockCache := mocks.NewCache(t)
			mockMedia := mocks.NewMediaStore(t)

			req, err := http.NewRequest("GET", "/dummyLogin?user_type="+tc.userType, nil)
			assert.NoError(t, err)

			rr := httptest.NewRecorder()
			handler := New(mockDB, mockCache, mockMedia, newAuth())
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)

			if tc.expectedCode == http.StatusOK {
				var token models.AuthorizationToken
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &token))
				assert.NotEmpty(t, token.Token)
			} else {
				assert.Equal(t, "3", rr.Header().Get("Retry-After"))
			}
		})
	}
}

func TestListingsByStatusHandler(t *testing.T) {
	listings := []models.Listing{
		{Id: `c`, Title: `C`, Verification: models.StatusPending},
		{Id: `b`, Title: `B`, Verification: models.StatusPending},
	}

	testCases := []struct {
		name           string
		userType       string
		query          string
		status         models.VerificationStatus
		authorized     bool
		expectCacheHit bool
		expectedCode   int
	}{
		// Тест 1: клиент без параметра получает проверенные объявления из базы
		{name: "client default verified", userType: models.UserTypeClient, status: models.StatusVerified, authorized: true, expectedCode: http.StatusOK},
		// Тест 2: сотрудник получает ожидающие объявления из кэша
		{name: "staff pending cached", userType: models.UserTypeStaff, query: `?status=pending`, status: models.StatusPending, authorized: true, expectCacheHit: true, expectedCode: http.StatusOK},
		// Тест 3: администратор получает отклонённые объявления из базы
		{name: "admin rejected", userType: models.UserTypeAdmin, query: `?status=rejected`, status: models.StatusRejected, authorized: true, expectedCode: http.StatusOK},
		// Тест 4: клиенту нельзя смотреть ожидающие объявления
		{name: "client pending forbidden", userType: models.UserTypeClient, query: `?status=pending`, authorized: true, expectedCode: http.StatusForbidden},
		// Тест 5: неизвестный статус
		{name: "unknown status", userType: models.UserTypeStaff, query: `?status=archived`, authorized: true, expectedCode: http.StatusBadRequest},
		// Тест 6: пользователь не авторизован
		{name: "unauthorized", userType: models.UserTypeClient, expectedCode: http.StatusUnauthorized},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("Test case %d: %s", i, tc.name), func(t *testing.T) {
			mockDB := mocks.NewDatabase(t)
			mockCache := mocks.NewCache(t)
			mockMedia := mocks.NewMediaStore(t)

			if tc.expectedCode == http.StatusOK {
				if tc.expectCacheHit {
					cachedData, _ := json.Marshal(listings)
					mockCache.On("GetListingsByStatus", mock.Anything, tc.status).Return(cachedData, nil).Once()
				} else {
					mockCache.On("GetListingsByStatus", mock.Anything, tc.status).Return(nil, redis.Nil).Once()
					mockCache.On("Generation", mock.Anything, tc.status).Return(int64(3), nil).Once()
					mockDB.On("GetListingsByStatus", mock.Anything, tc.status).Return(listings, nil).Once()
					mockCache.On("PutListingsByStatus", mock.Anything, listings, tc.status, int64(3)).Return(nil).Once()
				}
			}

			var token string
			if tc.authorized {
				token, _ = PerformLogin(`dummyLogin-viewer`, tc.userType)
			}

			req, err := http.NewRequest("GET", "/listings"+tc.query, nil)
			assert.NoError(t, err)
			req.Header.Set("Authorization", token)

			rr := httptest.NewRecorder()
			handler := New(mockDB, mockCache, mockMedia, newAuth())
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)

			if tc.expectedCode == http.StatusOK {
				var got []models.Listing
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, listings, got)
			}
		})
	}
}

func TestListingsByStatusEmpty(t *testing.T) {
	mockDB := mocks.NewDatabase(t)
	mockCache := mocks.NewCache(t)

	mockCache.On("GetListingsByStatus", mock.Anything, models.StatusVerified).Return(nil, storage.ErrCacheMiss).Once()
	mockCache.On("Generation", mock.Anything, models.StatusVerified).Return(int64(0), nil).Once()
	mockDB.On("GetListingsByStatus", mock.Anything, models.StatusVerified).Return(nil, nil).Once()
	mockCache.On("PutListingsByStatus", mock.Anything, []models.Listing{}, models.StatusVerified, int64(0)).Return(errors.New("redis down")).Once()

	token, _ := PerformLogin(`dummyLogin-viewer`, models.UserTypeClient)
	req := httptest.NewRequest("GET", "/listings", nil)
	req.Header.Set("Authorization", token)

	rr := httptest.NewRecorder()
	New(mockDB, mockCache, mocks.NewMediaStore(t), newAuth()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListingCreateHandler(t *testing.T) {
	tooFewMedia := validRequest()
	tooFewMedia.Media = tooFewMedia.Media[:3]

	noTitle := validRequest()
	noTitle.Title = ``

	blankCity := validRequest()
	blankCity.Title = "   "
	blankCity.City = "\t\n"

	testCases := []struct {
		name           string
		input          models.CreateListingRequest
		authorized     bool
		expectedCode   int
		expectedFields []string
	}{
		// Тест 1: создание объявления со всеми полями
		{name: "created", input: validRequest(), authorized: true, expectedCode: http.StatusCreated},
		// Тест 2: только три медиафайла
		{name: "three media", input: tooFewMedia, authorized: true, expectedCode: http.StatusBadRequest, expectedFields: []string{`media`}},
		// Тест 3: нет заголовка
		{name: "no title", input: noTitle, authorized: true, expectedCode: http.StatusBadRequest, expectedFields: []string{`title`}},
		// Тест 4: заголовок и город из одних пробелов
		{name: "blank fields", input: blankCity, authorized: true, expectedCode: http.StatusBadRequest, expectedFields: []string{`title`, `city`}},
		// Тест 5: пользователь не авторизован
		{name: "unauthorized", input: validRequest(), expectedCode: http.StatusUnauthorized},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("Test case %d: %s", i, tc.name), func(t *testing.T) {
			mockDB := mocks.NewDatabase(t)
			mockCache := mocks.NewCache(t)
			mockMedia := mocks.NewMediaStore(t)

			created := tc.input.Listing(`dummyLogin-owner`)
			created.Id = `listing-1`
			created.Verification = models.StatusPending
			created.CreatedAt = time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

			if tc.expectedCode == http.StatusCreated {
				mockDB.On("CreateListing", mock.Anything, mock.MatchedBy(func(l models.Listing) bool {
					return l.OwnerId == `dummyLogin-owner` && l.Title == tc.input.Title && len(l.Media) == 4
				})).Return(created, nil).Once()
				mockCache.On("DeleteListingsByStatus", mock.Anything, models.StatusPending).Once()
			}

			var token string
			if tc.authorized {
				token, _ = PerformLogin(`dummyLogin-owner`, models.UserTypeClient)
			}

			reqBody, _ := json.Marshal(tc.input)
			req, err := http.NewRequest("POST", "/listings", bytes.NewBuffer(reqBody))
			assert.NoError(t, err)
			req.Header.Set("Authorization", token)
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			handler := New(mockDB, mockCache, mockMedia, newAuth())
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)

			switch tc.expectedCode {
			case http.StatusCreated:
				var got models.Listing
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, created, got)
			case http.StatusBadRequest:
				var resp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				for _, field := range tc.expectedFields {
					assert.Contains(t, resp.Fields, field)
				}
			}
		})
	}
}

func TestListingGetHandler(t *testing.T) {
	pending := models.Listing{Id: `l1`, OwnerId: `dummyLogin-owner`, Title: `Cozy Home`, Verification: models.StatusPending}

	testCases := []struct {
		name         string
		userId       string
		userType     string
		expectedCode int
	}{
		// Тест 1: владелец видит своё объявление на проверке
		{name: "owner", userId: `dummyLogin-owner`, userType: models.UserTypeClient, expectedCode: http.StatusOK},
		// Тест 2: другой клиент не видит чужое объявление на проверке
		{name: "stranger", userId: `dummyLogin-stranger`, userType: models.UserTypeClient, expectedCode: http.StatusNotFound},
		// Тест 3: сотрудник видит любое объявление
		{name: "staff", userId: `dummyLogin-staff`, userType: models.UserTypeStaff, expectedCode: http.StatusOK},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("Test case %d: %s", i, tc.name), func(t *testing.T) {
			mockDB := mocks.NewDatabase(t)

			mockDB.On("GetListingById", mock.Anything, `l1`).Return(pending, nil).Once()

			token, _ := PerformLogin(tc.userId, tc.userType)
			req := httptest.NewRequest("GET", "/listings/l1", nil)
			req.Header.Set("Authorization", token)

			rr := httptest.NewRecorder()
			New(mockDB, mocks.NewCache(t), mocks.NewMediaStore(t), newAuth()).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func TestListingTransitionHandler(t *testing.T) {
	pending := models.Listing{Id: `l1`, Title: `Cozy Home`, Verification: models.StatusPending}
	verified := pending
	verified.Verification = models.StatusVerified
	verified.ReviewedBy = `dummyLogin-staff`
	rejected := pending
	rejected.Verification = models.StatusRejected

	testCases := []struct {
		name          string
		method        string
		path          string
		body          string
		userType      string
		current       *models.Listing
		getErr        error
		transitionErr error
		target        models.VerificationStatus
		expectedCode  int
	}{
		// Тест 1: сотрудник одобряет объявление через PATCH
		{name: "patch verified", method: "PATCH", path: "/listings/l1", body: `{"verification":"verified"}`, userType: models.UserTypeStaff, current: &pending, target: models.StatusVerified, expectedCode: http.StatusOK},
		// Тест 2: администратор отклоняет объявление через PUT
		{name: "put rejected", method: "PUT", path: "/listings/l1", body: `{"verification":"rejected"}`, userType: models.UserTypeAdmin, current: &pending, target: models.StatusRejected, expectedCode: http.StatusOK},
		// Тест 3: короткий маршрут accept
		{name: "accept shorthand", method: "POST", path: "/listings/l1/accept", userType: models.UserTypeStaff, current: &pending, target: models.StatusVerified, expectedCode: http.StatusOK},
		// Тест 4: клиент не может проверять объявления
		{name: "client forbidden", method: "PATCH", path: "/listings/l1", body: `{"verification":"verified"}`, userType: models.UserTypeClient, expectedCode: http.StatusForbidden},
		// Тест 5: объявление уже отклонено
		{name: "terminal", method: "POST", path: "/listings/l1/accept", userType: models.UserTypeStaff, current: &rejected, expectedCode: http.StatusConflict},
		// Тест 6: объявление не найдено
		{name: "missing", method: "POST", path: "/listings/l1/reject", userType: models.UserTypeStaff, getErr: storage.ErrNotFound, expectedCode: http.StatusNotFound},
		// Тест 7: другой сотрудник успел раньше
		{name: "lost race", method: "POST", path: "/listings/l1/reject", userType: models.UserTypeStaff, current: &pending, target: models.StatusRejected, transitionErr: storage.ErrConflict, expectedCode: http.StatusConflict},
		// Тест 8: целевой статус pending недопустим
		{name: "bad target", method: "PATCH", path: "/listings/l1", body: `{"verification":"pending"}`, userType: models.UserTypeStaff, expectedCode: http.StatusBadRequest},
		// Тест 9: неверный JSON
		{name: "bad json", method: "PATCH", path: "/listings/l1", body: `{"verification"}`, userType: models.UserTypeStaff, expectedCode: http.StatusBadRequest},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("Test case %d: %s", i, tc.name), func(t *testing.T) {
			mockDB := mocks.NewDatabase(t)
			mockCache := mocks.NewCache(t)
			mockMedia := mocks.NewMediaStore(t)

			if tc.current != nil {
				mockDB.On("GetListingById", mock.Anything, `l1`).Return(*tc.current, nil).Once()
			} else if tc.getErr != nil {
				mockDB.On("GetListingById", mock.Anything, `l1`).Return(models.Listing{}, tc.getErr).Once()
			}

			var updated models.Listing
			if tc.target != `` {
				updated = pending
				updated.Verification = tc.target
				updated.ReviewedBy = `dummyLogin-staff`

				if tc.transitionErr != nil {
					mockDB.On("TransitionListing", mock.Anything, `l1`, models.StatusPending, tc.target, `dummyLogin-staff`).Return(rejected, tc.transitionErr).Once()
				} else {
					mockDB.On("TransitionListing", mock.Anything, `l1`, models.StatusPending, tc.target, `dummyLogin-staff`).Return(updated, nil).Once()
					mockCache.On("DeleteListingsByStatus", mock.Anything, models.StatusPending).Once()
					mockCache.On("DeleteListingsByStatus", mock.Anything, tc.target).Once()
				}
			}

			token, _ := PerformLogin(`dummyLogin-staff`, tc.userType)

			var body *bytes.Buffer
			if tc.body != `` {
				body = bytes.NewBufferString(tc.body)
			} else {
				body = &bytes.Buffer{}
			}

			req, err := http.NewRequest(tc.method, tc.path, body)
			assert.NoError(t, err)
			req.Header.Set("Authorization", token)
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			handler := New(mockDB, mockCache, mockMedia, newAuth())
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)

			if tc.expectedCode == http.StatusOK {
				var got models.Listing
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, updated, got)
			}
		})
	}
}

func TestAuthorizationMiddlewareChecksStoredUser(t *testing.T) {
	mockDB := mocks.NewDatabase(t)
	mockCache := mocks.NewCache(t)

	mockDB.On("GetUserById", mock.Anything, `deleted-user`).Return(models.User{}, storage.ErrNotFound).Once()

	token, _ := PerformLogin(`deleted-user`, models.UserTypeClient)
	req := httptest.NewRequest("GET", "/listings", nil)
	req.Header.Set("Authorization", token)

	rr := httptest.NewRecorder()
	New(mockDB, mockCache, mocks.NewMediaStore(t), newAuth()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func multipartBody(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(`file`, `upload.bin`)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestMediaUploadHandler(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	testCases := []struct {
		name         string
		data         []byte
		limit        int64
		expectedCode int
		expectedKind models.MediaKind
	}{
		// Тест 1: загрузка изображения
		{name: "png", data: png, expectedCode: http.StatusCreated, expectedKind: models.MediaImage},
		// Тест 2: текст не является медиафайлом
		{name: "text", data: []byte(`just some text`), expectedCode: http.StatusBadRequest},
		// Тест 3: файл больше лимита
		{name: "too large", data: append(png, make([]byte, 4096)...), limit: 1024, expectedCode: http.StatusRequestEntityTooLarge},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("Test case %d: %s", i, tc.name), func(t *testing.T) {
			mockDB := mocks.NewDatabase(t)
			mockCache := mocks.NewCache(t)
			mockMedia := mocks.NewMediaStore(t)

			if tc.expectedCode == http.StatusCreated {
				mockMedia.On("Upload", mock.Anything, `upload.bin`, `image/png`, mock.Anything).Return(`abc`, nil).Once()
			}

			token, _ := PerformLogin(`dummyLogin-owner`, models.UserTypeClient)
			body, contentType := multipartBody(t, tc.data)

			req, err := http.NewRequest("POST", "/media", body)
			assert.NoError(t, err)
			req.Header.Set("Authorization", token)
			req.Header.Set("Content-Type", contentType)

			rr := httptest.NewRecorder()
			handler := New(mockDB, mockCache, mockMedia, newAuth(), WithMediaLimit(tc.limit))
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)

			if tc.expectedCode == http.StatusCreated {
				var ref models.MediaRef
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ref))
				assert.Equal(t, models.MediaRef{URI: `/media/abc`, Kind: tc.expectedKind}, ref)
			}
		})
	}
}

func TestMediaDownloadHandler(t *testing.T) {
	mockMedia := mocks.NewMediaStore(t)

	mockMedia.On("Download", mock.Anything, `abc`).Return([]byte(`jpeg`), `image/jpeg`, nil).Once()
	mockMedia.On("Download", mock.Anything, `nope`).Return(nil, ``, storage.ErrNotFound).Once()

	handler := New(mocks.NewDatabase(t), mocks.NewCache(t), mockMedia, newAuth())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/media/abc", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `image/jpeg`, rr.Header().Get("Content-Type"))
	assert.Equal(t, `jpeg`, rr.Body.String())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/media/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
