package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nia-sales-be/pkg/speech"
)

const (
	defaultSTTEndpoint = "https://speech.googleapis.com/v1/speech:recognize"
	defaultTTSEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"
)

// Provider talks to the Google Cloud Speech REST APIs with an API key.
// Both directions share one bounded-timeout HTTP client.
type Provider struct {
	APIKey      string
	STTEndpoint string
	TTSEndpoint string
	Client      *http.Client
}

// Ensure Provider implements both collaborator contracts
var _ speech.Recognizer = &Provider{}
var _ speech.Synthesizer = &Provider{}

func NewProvider(apiKey string, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Provider{
		APIKey:      apiKey,
		STTEndpoint: defaultSTTEndpoint,
		TTSEndpoint: defaultTTSEndpoint,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding                   string          `json:"encoding,omitempty"`
	SampleRateHertz            int             `json:"sampleRateHertz,omitempty"`
	LanguageCode               string          `json:"languageCode"`
	EnableAutomaticPunctuation bool            `json:"enableAutomaticPunctuation"`
	SpeechContexts             []speechContext `json:"speechContexts,omitempty"`
}

type speechContext struct {
	Phrases []string `json:"phrases"`
}

type recognizeAudio struct {
	Content string `json:"content"` // base64
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate,omitempty"`
		Pitch         float64 `json:"pitch,omitempty"`
		VolumeGainDb  float64 `json:"volumeGainDb,omitempty"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"` // base64
}

// --- Interface Implementation ---

func (p *Provider) Recognize(ctx context.Context, req *speech.RecognitionRequest) (*speech.RecognitionResult, error) {
	body := recognizeRequest{
		Config: recognizeConfig{
			Encoding:                   req.Encoding,
			SampleRateHertz:            req.SampleRateHertz,
			LanguageCode:               req.LanguageCode,
			EnableAutomaticPunctuation: req.EnableAutomaticPunctuation,
		},
		Audio: recognizeAudio{
			Content: base64.StdEncoding.EncodeToString(req.Audio),
		},
	}
	if len(req.VocabularyHints) > 0 {
		body.Config.SpeechContexts = []speechContext{{Phrases: req.VocabularyHints}}
	}

	var resp recognizeResponse
	if err := p.post(ctx, p.STTEndpoint, body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return nil, speech.ErrNoSpeech
	}

	best := resp.Results[0].Alternatives[0]
	return &speech.RecognitionResult{
		Transcript: best.Transcript,
		Confidence: best.Confidence,
	}, nil
}

func (p *Provider) Synthesize(ctx context.Context, req *speech.SynthesisRequest) ([]byte, error) {
	var body synthesizeRequest
	body.Input.Text = req.Text
	body.Voice.LanguageCode = req.LanguageCode
	body.Voice.Name = req.VoiceName
	body.AudioConfig.AudioEncoding = "MP3"
	body.AudioConfig.SpeakingRate = req.SpeakingRate
	body.AudioConfig.Pitch = req.Pitch
	body.AudioConfig.VolumeGainDb = req.VolumeGainDb

	var resp synthesizeResponse
	if err := p.post(ctx, p.TTSEndpoint, body, &resp); err != nil {
		return nil, err
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("speech: failed to decode synthesized audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech: synthesizer returned empty audio")
	}
	return audio, nil
}

func (p *Provider) post(ctx context.Context, endpoint string, reqBody interface{}, out interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("speech: failed to marshal request: %w", err)
	}

	url := endpoint + "?key=" + p.APIKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("speech: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.Client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("speech: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("speech: failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("speech: API returned status %d: %s", httpResp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("speech: failed to parse response: %w", err)
	}
	return nil
}
