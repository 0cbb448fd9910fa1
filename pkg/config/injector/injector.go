// Package injector substitui referências ${env.X}, ${ssm./caminho} e
// ${secret.id} (ou ${secret.id#campo} para segredos JSON) dentro dos campos
// string de uma configuração já carregada.
package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/raywall/stats-api/pkg/awsconf"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.API_KEY}, ${ssm./app/config}, ${secret.db_pass}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type Injector struct {
	region  string
	once    sync.Once
	initErr error
	ssm     SSMClient
	secrets SecretsClient
}

// New cria um Injector que só conecta na AWS quando encontra ${ssm.} ou ${secret.}.
func New(region string) *Injector {
	return &Injector{region: region}
}

// NewWithClients cria um Injector com clientes explícitos (testes).
func NewWithClients(ssmClient SSMClient, secretsClient SecretsClient) *Injector {
	i := &Injector{ssm: ssmClient, secrets: secretsClient}
	i.once.Do(func() {})
	return i
}

func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.String:
		if !v.CanSet() {
			return nil
		}
		newValue, err := i.interpolateString(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(newValue)

	case reflect.Struct:
		for k := 0; k < v.NumField(); k++ {
			if err := i.injectRecursive(ctx, v.Field(k)); err != nil {
				return err
			}
		}

	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String && !v.IsNil() {
			return i.injectMap(ctx, v)
		}

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.injectRecursive(ctx, v.Index(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// injectMap interpola valores string de mapas (elementos de mapa não são endereçáveis).
func (i *Injector) injectMap(ctx context.Context, v reflect.Value) error {
	if v.Type().Elem().Kind() != reflect.String && v.Type().Elem().Kind() != reflect.Interface {
		return nil
	}
	iter := v.MapRange()
	updates := make(map[string]string)
	for iter.Next() {
		elem := iter.Value()
		if elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}
		if !elem.IsValid() || elem.Kind() != reflect.String {
			continue
		}
		newVal, err := i.interpolateString(ctx, elem.String())
		if err != nil {
			return err
		}
		updates[iter.Key().String()] = newVal
	}
	for k, val := range updates {
		v.SetMapIndex(reflect.ValueOf(k).Convert(v.Type().Key()), reflect.ValueOf(val).Convert(v.Type().Elem()))
	}
	return nil
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var err error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if err != nil {
			return match
		}
		groups := pattern.FindStringSubmatch(match)
		val, resolveErr := i.fetchValue(ctx, groups[1], groups[2])
		if resolveErr != nil {
			err = resolveErr // Captura erro para retornar depois
			return match
		}
		return val
	})

	return result, err
}

// fetchValue centraliza a busca de dados
func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		return os.Getenv(key), nil // Variável não encontrada retorna vazio

	case "ssm":
		if err := i.clients(ctx); err != nil {
			return "", err
		}
		out, err := i.ssm.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(key),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return "", fmt.Errorf("erro no SSM GetParameter '%s': %w", key, err)
		}
		return aws.ToString(out.Parameter.Value), nil

	case "secret":
		if err := i.clients(ctx); err != nil {
			return "", err
		}
		id, field, _ := strings.Cut(key, "#")
		out, err := i.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(id),
		})
		if err != nil {
			return "", fmt.Errorf("erro no SecretsManager '%s': %w", id, err)
		}
		val := aws.ToString(out.SecretString)
		if field == "" {
			return val, nil
		}
		return secretField(id, field, val)
	}

	return "", fmt.Errorf("origem desconhecida: %s", sourceType)
}

// secretField extrai um campo de um segredo no formato JSON.
func secretField(id, field, raw string) (string, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return "", fmt.Errorf("segredo '%s' não é JSON: %w", id, err)
	}
	v, ok := data[field]
	if !ok {
		return "", fmt.Errorf("campo '%s' ausente no segredo '%s'", field, id)
	}
	return fmt.Sprintf("%v", v), nil
}

func (i *Injector) clients(ctx context.Context) error {
	i.once.Do(func() {
		cfg, err := awsconf.Get(ctx, i.region)
		if err != nil {
			i.initErr = fmt.Errorf("erro config aws: %w", err)
			return
		}
		i.ssm = ssm.NewFromConfig(cfg)
		i.secrets = secretsmanager.NewFromConfig(cfg)
	})
	return i.initErr
}
