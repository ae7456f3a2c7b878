// Command podcast-cli is the standalone variant of the generator: it prompts
// for a PDF, runs the same pipeline as the server, writes the script to a
// text file and the audio clips to a directory, and leaves merging the clips
// to an external audio editor.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvcarvalho/pdf-podcast-api/internal/config"
	"github.com/mvcarvalho/pdf-podcast-api/internal/models"
	"github.com/mvcarvalho/pdf-podcast-api/internal/services"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)

	podcastService, err := services.NewService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize podcast service", "error", err)
	}
	defer podcastService.Close()

	stdin := bufio.NewScanner(os.Stdin)

	pdfPath, err := choosePDF(stdin)
	if err != nil {
		logger.Fatal("No PDF selected", "error", err)
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		logger.Fatal("Failed to read PDF", "path", pdfPath, "error", err)
	}

	resp, err := podcastService.GeneratePodcast(context.Background(), &models.GenerateRequest{
		File:     data,
		Filename: filepath.Base(pdfPath),
	})
	if err != nil {
		logger.Fatal("Podcast generation failed", "error", err)
	}

	if err := os.WriteFile(cfg.ScriptFile, []byte(resp.Script), 0o644); err != nil {
		logger.Fatal("Failed to write script file", "path", cfg.ScriptFile, "error", err)
	}
	fmt.Printf("Roteiro completo salvo em %q para sua revisão.\n", cfg.ScriptFile)

	if err := writeSegments(cfg.AudioDir, resp.Segments); err != nil {
		logger.Fatal("Failed to write audio segments", "dir", cfg.AudioDir, "error", err)
	}

	fmt.Printf("\n--- Métricas do Podcast ---\n")
	fmt.Printf("  Número de Participantes: %d\n", resp.Metrics.NumParticipants)
	fmt.Printf("  Nomes dos Participantes: %s\n", resp.Metrics.PresenterNames)
	fmt.Printf("  Tempo Estimado: %s\n", resp.Metrics.EstimatedTime)
	fmt.Printf("  Tópicos Abordados:\n%s\n", resp.Metrics.Topics)

	fmt.Printf("\nProcesso concluído! Os arquivos de áudio individuais foram gerados no diretório %q.\n", cfg.AudioDir)
	fmt.Println("Para ter um único arquivo de podcast, combine os arquivos manualmente usando um software de edição de áudio (ex: Audacity).")
}

// choosePDF lists the PDFs in the working directory and prompts for one of
// them (or a full path), re-prompting while the chosen file does not exist.
func choosePDF(stdin *bufio.Scanner) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		pdfs, err := filepath.Glob(filepath.Join(cwd, "*.pdf"))
		if err != nil {
			return "", err
		}

		var path string
		if len(pdfs) == 0 {
			fmt.Println("\nNenhum arquivo PDF encontrado no diretório atual.")
			path = prompt(stdin, "Digite o caminho COMPLETO para o seu arquivo PDF: ")
		} else {
			fmt.Println("\nArquivos PDF encontrados no diretório atual:")
			for i, pdf := range pdfs {
				fmt.Printf("  %d. %s\n", i+1, filepath.Base(pdf))
			}
			path = promptChoice(stdin, pdfs)
		}

		if path == "" {
			return "", fmt.Errorf("nenhum caminho informado")
		}

		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		fmt.Printf("\nErro: o arquivo PDF %q não foi encontrado ou está inacessível.\n", path)
		if !strings.EqualFold(prompt(stdin, "Deseja tentar novamente? (s/n): "), "s") {
			return "", fmt.Errorf("seleção de PDF cancelada")
		}
	}
}

func promptChoice(stdin *bufio.Scanner, pdfs []string) string {
	for {
		answer := prompt(stdin, fmt.Sprintf("Digite o NÚMERO do PDF que deseja usar (1-%d) ou '0' para digitar o caminho completo: ", len(pdfs)))

		choice, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Println("Entrada inválida. Por favor, digite um número.")
			continue
		}

		switch {
		case choice == 0:
			return prompt(stdin, "Digite o caminho COMPLETO para o seu arquivo PDF: ")
		case choice >= 1 && choice <= len(pdfs):
			fmt.Printf("Você selecionou: %s\n", filepath.Base(pdfs[choice-1]))
			return pdfs[choice-1]
		default:
			fmt.Println("Escolha inválida. Por favor, digite um número da lista ou '0'.")
		}
	}
}

func prompt(stdin *bufio.Scanner, message string) string {
	fmt.Print(message)
	if !stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(stdin.Text())
}

func writeSegments(dir string, segments []models.AudioSegment) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, seg := range segments {
		path := filepath.Join(dir, seg.Filename)
		if err := os.WriteFile(path, seg.Data, 0o644); err != nil {
			return err
		}
		fmt.Printf("  Gerado: %s\n", path)
	}

	return nil
}
